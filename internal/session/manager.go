package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gridbase/fieldconf/internal/constraint"
	"github.com/gridbase/fieldconf/internal/repo"
)

// Manager tracks live edit sessions by ID. Sessions are independent: two
// sessions over the same table do not see each other's edits and no merge is
// attempted; whichever saves first wins and the other keeps working against
// its own stale baseline until saved or discarded.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	repository repo.ColumnRepository
	engine     *constraint.Engine
}

func NewManager(repository repo.ColumnRepository, engine *constraint.Engine) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		repository: repository,
		engine:     engine,
	}
}

// Open loads the table's column baseline and starts a session over it.
func (m *Manager) Open(ctx context.Context, tableName string) (*Session, error) {
	baseline, err := m.repository.LoadColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns for %q: %w", tableName, err)
	}

	s := newSession(uuid.New().String(), tableName, baseline, m.engine)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s, nil
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Save persists the session's change-set through the repository.
func (m *Manager) Save(ctx context.Context, id string) (int, error) {
	s, ok := m.Get(id)
	if !ok {
		return 0, fmt.Errorf("session %q not found", id)
	}
	return s.Save(ctx, m.repository)
}

// Discard drops the session and its working state.
func (m *Manager) Discard(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}
