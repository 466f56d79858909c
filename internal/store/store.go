// Package store owns the baseline and working column sequences of one edit
// session. The two sequences stay index-aligned for their whole lifetime: the
// store replaces values at existing indices and never reorders, inserts or
// deletes, which is what lets the diff engine compare by position.
package store

import (
	"fmt"

	"github.com/gridbase/fieldconf/internal/constraint"
	"github.com/gridbase/fieldconf/internal/diff"
	"github.com/gridbase/fieldconf/internal/models"
)

// NotFoundError reports a mutation against a column name that does not exist
// in the working sequence.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Name)
}

type Store struct {
	baseline []models.Column
	working  []models.Column
	engine   *constraint.Engine

	// memoized diff; nil means stale
	deltas map[int]diff.Delta
}

// NewStore copies the loaded baseline into a working sequence. The baseline
// itself is never mutated afterwards; Rebase promotes the working state once
// a save has been confirmed.
func NewStore(baseline []models.Column, engine *constraint.Engine) *Store {
	return &Store{
		baseline: cloneColumns(baseline),
		working:  cloneColumns(baseline),
		engine:   engine,
	}
}

func (s *Store) Len() int {
	return len(s.working)
}

func (s *Store) Get(name string) (models.Column, error) {
	idx := s.indexOf(name)
	if idx < 0 {
		return models.Column{}, &NotFoundError{Name: name}
	}
	return s.working[idx].Clone(), nil
}

// Mutate is the single mutation entry point. It applies the option transform
// and the constraint rules to a copy of the named column, then commits the
// result at the index the column was found at. Unknown names fail with
// NotFoundError instead of no-opping.
func (s *Store) Mutate(name, path string, value any) ([]models.Column, error) {
	idx := s.indexOf(name)
	if idx < 0 {
		return nil, &NotFoundError{Name: name}
	}

	next, err := models.WithOption(s.working[idx], path, value)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Check(next, path, value); err != nil {
		return nil, err
	}
	next = s.engine.Apply(next, path, value)

	s.working[idx] = next
	s.deltas = nil
	return s.Snapshot(), nil
}

// Snapshot returns a deep copy of the current working sequence.
func (s *Store) Snapshot() []models.Column {
	return cloneColumns(s.working)
}

// Baseline returns a deep copy of the baseline sequence.
func (s *Store) Baseline() []models.Column {
	return cloneColumns(s.baseline)
}

// Deltas returns the structural diff of working against baseline, recomputed
// lazily and cached until the next mutation.
func (s *Store) Deltas() (map[int]diff.Delta, error) {
	if s.deltas == nil {
		deltas, err := diff.Diff(s.baseline, s.working)
		if err != nil {
			return nil, err
		}
		s.deltas = deltas
	}
	return s.deltas, nil
}

// Rebase promotes the working state to the new baseline after a confirmed
// save.
func (s *Store) Rebase() {
	s.baseline = cloneColumns(s.working)
	s.deltas = nil
}

func (s *Store) indexOf(name string) int {
	for i := range s.working {
		if s.working[i].Name == name {
			return i
		}
	}
	return -1
}

func cloneColumns(columns []models.Column) []models.Column {
	out := make([]models.Column, len(columns))
	for i := range columns {
		out[i] = columns[i].Clone()
	}
	return out
}
