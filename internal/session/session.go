// Package session manages server-side column edit sessions. A session owns
// the baseline/working store for one table and is the only path through which
// edits, change-set previews and saves happen.
package session

import (
	"context"
	"sync"

	"github.com/gridbase/fieldconf/internal/constraint"
	"github.com/gridbase/fieldconf/internal/models"
	"github.com/gridbase/fieldconf/internal/patch"
	"github.com/gridbase/fieldconf/internal/repo"
	"github.com/gridbase/fieldconf/internal/store"
)

type Session struct {
	ID        string
	TableName string

	mu    sync.Mutex
	store *store.Store
}

func newSession(id, tableName string, baseline []models.Column, engine *constraint.Engine) *Session {
	return &Session{
		ID:        id,
		TableName: tableName,
		store:     store.NewStore(baseline, engine),
	}
}

// Columns returns the current working snapshot.
func (s *Session) Columns() []models.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Mutate routes one option edit through the store and returns the resulting
// column together with the session's dirtiness.
func (s *Session) Mutate(name, path string, value any) (models.Column, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Mutate(name, path, value); err != nil {
		return models.Column{}, false, err
	}

	column, err := s.store.Get(name)
	if err != nil {
		return models.Column{}, false, err
	}
	changes, err := s.changeSetLocked()
	if err != nil {
		return models.Column{}, false, err
	}
	return column, changes.Dirty(), nil
}

// Changes returns the change-set that a save would transmit, plus dirtiness.
func (s *Session) Changes() (patch.ChangeSet, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changes, err := s.changeSetLocked()
	if err != nil {
		return nil, false, err
	}
	return changes, changes.Dirty(), nil
}

// Save hands the change-set to the persistence collaborator. On success the
// working state is promoted to the new baseline. On failure the working state
// is left untouched so the caller can retry or discard; there is no automatic
// retry. A clean session saves as a no-op.
func (s *Session) Save(ctx context.Context, repository repo.ColumnRepository) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changes, err := s.changeSetLocked()
	if err != nil {
		return 0, err
	}
	if !changes.Dirty() {
		return 0, nil
	}

	if err := repository.ApplyChangeSet(ctx, s.TableName, changes); err != nil {
		return 0, err
	}

	s.store.Rebase()
	return len(changes), nil
}

func (s *Session) changeSetLocked() (patch.ChangeSet, error) {
	deltas, err := s.store.Deltas()
	if err != nil {
		return nil, err
	}
	return patch.BuildChangeSet(deltas, s.store.Snapshot()), nil
}
