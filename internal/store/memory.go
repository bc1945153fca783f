// internal/store/memory.go
package store

import (
	"context"
	"sync"

	"scholarship-workflow/internal/models"
)

// MemoryStore keeps applications in process memory with a mutex per
// application, so updates to one application serialize while different
// applications proceed in parallel. Used in development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	apps map[string]*memoryEntry
}

type memoryEntry struct {
	mu  sync.Mutex
	app *models.Application
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Create(ctx context.Context, app *models.Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.apps[app.ID]; exists {
		return ErrDuplicate
	}
	s.apps[app.ID] = &memoryEntry{app: app.Clone()}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.app.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(app *models.Application) error) (*models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// fn works on a clone; an error leaves the stored state untouched.
	work := entry.app.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry.app = work
	return work.Clone(), nil
}

func (s *MemoryStore) entry(id string) (*memoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.apps[id]
	if !exists {
		return nil, ErrNotFound
	}
	return entry, nil
}
