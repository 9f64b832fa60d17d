package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/driftguide/internal/config"
	"github.com/san-kum/driftguide/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	cyclesFile   = "cycles.csv"
)

var cycleHeader = []string{
	"index", "time", "exposure", "truth", "raw", "control",
	"corrected", "timestamp", "drift_rate", "drift_active",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset,omitempty"`
	Axis       string             `json:"axis"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Cycles     int                `json:"cycles"`
	Exposure   float64            `json:"exposure"`
	Jitter     float64            `json:"jitter"`
	Noise      float64            `json:"noise"`
	Gain       float64            `json:"gain"`
	MinSamples int                `json:"min_samples"`
	Mount      config.MountConfig `json:"mount"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Duration is the simulated time covered by the run in seconds.
func (m *RunMetadata) Duration() float64 {
	return float64(m.Cycles) * m.Exposure
}

// Save writes meta and the cycles of result under a new run id. ID and
// Timestamp of meta are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Axis, now.UnixNano())
	meta.Timestamp = now
	meta.Cycles = len(result.Cycles)
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, cyclesFile), func(f io.Writer) error {
		w := csv.NewWriter(f)
		if err := w.Write(cycleHeader); err != nil {
			return err
		}
		for _, c := range result.Cycles {
			if err := w.Write(formatCycle(c)); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return closeAfter(f, write(f))
}

// closeAfter closes f and returns err, or the close error when err is nil.
func closeAfter(f io.Closer, err error) error {
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatCycle(c sim.Cycle) []string {
	return []string{
		strconv.Itoa(c.Index),
		formatFloat(c.Time),
		formatFloat(c.Exposure),
		formatFloat(c.Truth),
		formatFloat(c.Raw),
		formatFloat(c.Control),
		formatFloat(c.Corrected),
		formatFloat(c.Timestamp),
		formatFloat(c.DriftRate),
		strconv.FormatBool(c.DriftActive),
	}
}

func parseCycle(record []string) (sim.Cycle, error) {
	var c sim.Cycle
	if len(record) != len(cycleHeader) {
		return c, fmt.Errorf("storage: expected %d fields, got %d", len(cycleHeader), len(record))
	}

	idx, err := strconv.Atoi(record[0])
	if err != nil {
		return c, err
	}
	c.Index = idx

	floats := []*float64{&c.Time, &c.Exposure, &c.Truth, &c.Raw, &c.Control, &c.Corrected, &c.Timestamp, &c.DriftRate}
	for i, dst := range floats {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return c, err
		}
		*dst = v
	}

	active, err := strconv.ParseBool(record[len(record)-1])
	if err != nil {
		return c, err
	}
	c.DriftActive = active
	return c, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadCycles(runID string) ([]sim.Cycle, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, cyclesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Cycle{}, nil
	}

	cycles := make([]sim.Cycle, 0, len(records)-1)
	for i, record := range records[1:] {
		c, err := parseCycle(record)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", runID, i+2, err)
		}
		cycles = append(cycles, c)
	}

	return cycles, nil
}
