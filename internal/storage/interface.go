package storage

import (
	"context"
	"time"

	"github.com/mcoot/pelada/internal/model"
)

// Mutation is a single change to the registration set
type Mutation struct {
	Name    string
	Present bool      // true adds the registration, false removes it
	At      time.Time // registration timestamp, used when Present is true
}

// DecideFunc inspects the current registration set and returns the mutation
// to commit, or nil to leave the set unchanged
type DecideFunc func(current []model.Registration) (*Mutation, error)

// Storage defines the interface for registration persistence.
// Each method is atomic on its own.
type Storage interface {
	// ListRegistrations returns all registrations sorted by name
	ListRegistrations(ctx context.Context) ([]model.Registration, error)
	AddRegistration(ctx context.Context, name string, at time.Time) error
	RemoveRegistration(ctx context.Context, name string) error
	ClearRegistrations(ctx context.Context) error

	// Transact reads the registration set, calls decide and commits the
	// returned mutation as one unit. If another writer changed the set in the
	// meantime nothing is written and model.ErrConcurrencyConflict is returned.
	// An error from decide is returned unchanged.
	Transact(ctx context.Context, decide DecideFunc) error

	Close() error
}
