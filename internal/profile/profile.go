// Package profile is the persistent key/value store guide algorithms keep
// their configuration in. Keys are slash separated paths such as
// "/guider/ra/linear_regression/lr_controlGain".
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrNoPath = errors.New("profile: store has no file path")

type document struct {
	Doubles map[string]float64 `yaml:"doubles,omitempty"`
	Ints    map[string]int     `yaml:"ints,omitempty"`
}

// Store is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// New returns an empty store that lives only in memory.
func New() *Store {
	return &Store{doc: document{
		Doubles: make(map[string]float64),
		Ints:    make(map[string]int),
	}}
}

// Open reads the store at path. A missing file yields an empty store that
// Save will create.
func Open(path string) (*Store, error) {
	s := New()
	s.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("profile: parse %s: %w", path, err)
	}
	if s.doc.Doubles == nil {
		s.doc.Doubles = make(map[string]float64)
	}
	if s.doc.Ints == nil {
		s.doc.Ints = make(map[string]int)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Double(key string, def float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.doc.Doubles[key]; ok {
		return v
	}
	return def
}

func (s *Store) SetDouble(key string, v float64) {
	s.mu.Lock()
	s.doc.Doubles[key] = v
	s.mu.Unlock()
}

func (s *Store) Int(key string, def int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.doc.Ints[key]; ok {
		return v
	}
	return def
}

func (s *Store) SetInt(key string, v int) {
	s.mu.Lock()
	s.doc.Ints[key] = v
	s.mu.Unlock()
}

// Entry is one stored value rendered for display.
type Entry struct {
	Key   string
	Value string
}

// Entries lists every stored value sorted by key.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.doc.Doubles)+len(s.doc.Ints))
	for k, v := range s.doc.Doubles {
		entries = append(entries, Entry{Key: k, Value: fmt.Sprintf("%g", v)})
	}
	for k, v := range s.doc.Ints {
		entries = append(entries, Entry{Key: k, Value: fmt.Sprintf("%d", v)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// Save writes the store back to the file it was opened from.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return ErrNoPath
	}
	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
