package leveldb

import (
	"context"
	"fmt"
	"sync"
	"time"

	dbm "github.com/tendermint/tm-db"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
)

const (
	dbName    = "pelada"
	keyPrefix = "registration/"
	// keyEnd is keyPrefix with its last byte incremented, the exclusive
	// upper bound of the prefix range
	keyEnd = "registration0"
)

// Storage keeps the registration set in an embedded key/value database.
// The database has no transactions of its own, so writers are serialised by
// a mutex and Transact never reports a conflict.
type Storage struct {
	mu sync.Mutex
	db dbm.DB
}

// New opens (or creates) a goleveldb database under dir
func New(dir string) (*Storage, error) {
	db, err := dbm.NewDB(dbName, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: opening leveldb at %s: %v", model.ErrSourceUnavailable, dir, err)
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an already open database (for testing with dbm.NewMemDB)
func NewWithDB(db dbm.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	return s.list()
}

func (s *Storage) AddRegistration(ctx context.Context, name string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.SetSync(registrationKey(name), encodeTime(at))
}

func (s *Storage) RemoveRegistration(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.DeleteSync(registrationKey(name))
}

func (s *Storage) ClearRegistrations(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs, err := s.list()
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer func() { _ = batch.Close() }()
	for _, r := range regs {
		if err := batch.Delete(registrationKey(r.Name)); err != nil {
			return err
		}
	}
	return batch.WriteSync()
}

func (s *Storage) Transact(ctx context.Context, decide storage.DecideFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.list()
	if err != nil {
		return err
	}

	m, err := decide(current)
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}

	if m.Present {
		return s.db.SetSync(registrationKey(m.Name), encodeTime(m.At))
	}
	return s.db.DeleteSync(registrationKey(m.Name))
}

// list walks the registration prefix; keys come back in byte order, which is
// name order
func (s *Storage) list() ([]model.Registration, error) {
	it, err := s.db.Iterator([]byte(keyPrefix), []byte(keyEnd))
	if err != nil {
		return nil, fmt.Errorf("iterating registrations: %w", err)
	}
	defer func() { _ = it.Close() }()

	regs := []model.Registration{}
	for ; it.Valid(); it.Next() {
		name := string(it.Key()[len(keyPrefix):])
		at, err := time.Parse(time.RFC3339Nano, string(it.Value()))
		if err != nil {
			return nil, fmt.Errorf("decoding registration %q: %w", name, err)
		}
		regs = append(regs, model.Registration{Name: name, RegisteredAt: at})
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("iterating registrations: %w", err)
	}
	return regs, nil
}

func registrationKey(name string) []byte {
	return []byte(keyPrefix + name)
}

func encodeTime(t time.Time) []byte {
	return []byte(t.UTC().Format(time.RFC3339Nano))
}
