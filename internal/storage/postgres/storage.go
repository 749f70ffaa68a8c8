package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS registrations (
		name          TEXT PRIMARY KEY,
		registered_at TIMESTAMPTZ NOT NULL
	)`

// SQLSTATE codes that mean the transaction lost a race and may be retried
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Storage is a PostgreSQL-backed implementation of the storage interface.
// Transact runs at SERIALIZABLE isolation so a concurrent writer makes one of
// the transactions fail instead of both committing over capacity.
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to the database and creates the registrations table if needed
func New(ctx context.Context, databaseURL string) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: creating connection pool: %v", model.ErrSourceUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", model.ErrSourceUnavailable, err)
	}

	s := NewWithPool(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool wraps an existing pool; the caller is responsible for Migrate
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Migrate creates the registrations table
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating registrations table: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	return listRegistrations(ctx, s.pool)
}

func (s *Storage) AddRegistration(ctx context.Context, name string, at time.Time) error {
	return upsertRegistration(ctx, s.pool, name, at)
}

func (s *Storage) RemoveRegistration(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM registrations WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting registration: %w", err)
	}
	return nil
}

func (s *Storage) ClearRegistrations(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM registrations`); err != nil {
		return fmt.Errorf("clearing registrations: %w", err)
	}
	return nil
}

func (s *Storage) Transact(ctx context.Context, decide storage.DecideFunc) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := listRegistrations(ctx, tx)
	if err != nil {
		return mapConflict(err)
	}

	m, err := decide(current)
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}

	if m.Present {
		err = upsertRegistration(ctx, tx, m.Name, m.At)
	} else {
		_, err = tx.Exec(ctx, `DELETE FROM registrations WHERE name = $1`, m.Name)
	}
	if err != nil {
		return mapConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapConflict(err)
	}
	return nil
}

// querier is the subset of pgxpool.Pool and pgx.Tx the helpers need
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func listRegistrations(ctx context.Context, q querier) ([]model.Registration, error) {
	rows, err := q.Query(ctx, `
		SELECT name, registered_at
		FROM registrations
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	defer rows.Close()

	regs := []model.Registration{}
	for rows.Next() {
		var r model.Registration
		if err := rows.Scan(&r.Name, &r.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scanning registration row: %w", err)
		}
		regs = append(regs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registration rows: %w", err)
	}
	return regs, nil
}

func upsertRegistration(ctx context.Context, q querier, name string, at time.Time) error {
	_, err := q.Exec(ctx, `
		INSERT INTO registrations (name, registered_at)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET registered_at = EXCLUDED.registered_at`,
		name, at)
	if err != nil {
		return fmt.Errorf("upserting registration: %w", err)
	}
	return nil
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %s", model.ErrConcurrencyConflict, pgErr.Message)
		}
	}
	return err
}
