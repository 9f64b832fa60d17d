package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/driftguide/internal/sim"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Cycles []sim.Cycle `json:"cycles"`
}

// ExportJSON writes the metadata and every cycle of a run as one JSON
// document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	cycles, err := s.LoadCycles(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Cycles: cycles})
}

// ExportCSV writes the cycles of a run in the stored CSV layout.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	cycles, err := s.LoadCycles(runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cycleHeader); err != nil {
		return err
	}
	for _, c := range cycles {
		if err := cw.Write(formatCycle(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
