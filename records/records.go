// Package records keeps finished runs on disk through gdata.
package records

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

var ErrNoRecords = errors.New("records: no runs recorded")

const (
	runsObject   = "runs"
	runsProperty = "history"
)

// Run is one finished run.
type Run struct {
	Level   int     `yaml:"level"`
	Time    float64 `yaml:"time"`
	Kills   int     `yaml:"kills"`
	Outcome string  `yaml:"outcome"`
	Arena   string  `yaml:"arena"`
}

// Better ranks runs: higher level first, then more kills, then the faster
// time.
func (r Run) Better(o Run) bool {
	if r.Level != o.Level {
		return r.Level > o.Level
	}
	if r.Kills != o.Kills {
		return r.Kills > o.Kills
	}
	return r.Time < o.Time
}

// Store is the run history. A nil manager keeps runs in memory only.
type Store struct {
	manager *gdata.Manager
	runs    []Run
}

// Open creates a persistent store under appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("records: open %s: %w", appName, err)
	}
	return NewStore(m)
}

// NewStore wraps m and loads what it already holds. Load failures are logged
// and leave the store empty.
func NewStore(m *gdata.Manager) (*Store, error) {
	s := &Store{manager: m}
	if err := s.Load(); err != nil {
		log.Printf("[records] failed to load run history: %v", err)
	}
	return s, nil
}

func (s *Store) Load() error {
	s.runs = nil
	if s.manager == nil || !s.manager.ObjectPropExists(runsObject, runsProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(runsObject, runsProperty)
	if err != nil {
		return fmt.Errorf("records: load: %w", err)
	}
	var runs []Run
	if err := yaml.Unmarshal(data, &runs); err != nil {
		return fmt.Errorf("records: unmarshal: %w", err)
	}
	s.runs = runs
	return nil
}

// Add appends r and saves the history.
func (s *Store) Add(r Run) error {
	s.runs = append(s.runs, r)
	return s.save()
}

func (s *Store) save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.runs)
	if err != nil {
		return fmt.Errorf("records: marshal: %w", err)
	}
	if err := s.manager.SaveObjectProp(runsObject, runsProperty, data); err != nil {
		return fmt.Errorf("records: save: %w", err)
	}
	return nil
}

// Best returns the highest ranked run.
func (s *Store) Best() (Run, error) {
	if len(s.runs) == 0 {
		return Run{}, ErrNoRecords
	}
	best := s.runs[0]
	for _, r := range s.runs[1:] {
		if r.Better(best) {
			best = r
		}
	}
	return best, nil
}

// All returns every run, best first.
func (s *Store) All() []Run {
	out := append([]Run(nil), s.runs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Better(out[j]) })
	return out
}

// Clear forgets every run.
func (s *Store) Clear() error {
	s.runs = nil
	return s.save()
}
