package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	registrations map[string]time.Time
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		registrations: make(map[string]time.Time),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), nil
}

func (s *Storage) AddRegistration(ctx context.Context, name string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations[name] = at
	return nil
}

func (s *Storage) RemoveRegistration(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registrations, name)
	return nil
}

func (s *Storage) ClearRegistrations(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations = make(map[string]time.Time)
	return nil
}

// Transact holds the write lock across read, decide and write, so it never
// reports a conflict
func (s *Storage) Transact(ctx context.Context, decide storage.DecideFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := decide(s.snapshot())
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}

	if m.Present {
		s.registrations[m.Name] = m.At
	} else {
		delete(s.registrations, m.Name)
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// snapshot copies the registration set; callers must hold the lock
func (s *Storage) snapshot() []model.Registration {
	result := make([]model.Registration, 0, len(s.registrations))
	for name, at := range s.registrations {
		result = append(result, model.Registration{Name: name, RegisteredAt: at})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
