package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// The roster is a single HASH so one WATCH covers the whole registration set.
type Storage struct {
	client *redis.Client
	cfg    Config
	key    string
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", model.ErrSourceUnavailable, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		key:    registrationsKey(cfg.KeyPrefix),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	return decodeRegistrations(fields)
}

func (s *Storage) AddRegistration(ctx context.Context, name string, at time.Time) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key, name, formatTime(at))
	s.touch(ctx, pipe)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) RemoveRegistration(ctx context.Context, name string) error {
	return s.client.HDel(ctx, s.key, name).Err()
}

func (s *Storage) ClearRegistrations(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Transact uses optimistic locking: the roster key is WATCHed while decide
// runs and the mutation is committed with MULTI/EXEC
func (s *Storage) Transact(ctx context.Context, decide storage.DecideFunc) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, s.key).Result()
		if err != nil {
			return err
		}
		current, err := decodeRegistrations(fields)
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

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if m.Present {
				pipe.HSet(ctx, s.key, m.Name, formatTime(m.At))
				s.touch(ctx, pipe)
			} else {
				pipe.HDel(ctx, s.key, m.Name)
			}
			return nil
		})
		return err
	}, s.key)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrConcurrencyConflict
	}
	return err
}

// touch refreshes the roster TTL when one is configured
func (s *Storage) touch(ctx context.Context, pipe redis.Pipeliner) {
	if s.cfg.RegistrationTTL > 0 {
		pipe.Expire(ctx, s.key, s.cfg.RegistrationTTL)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeRegistrations(fields map[string]string) ([]model.Registration, error) {
	regs := make([]model.Registration, 0, len(fields))
	for name, raw := range fields {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("decoding registration %q: %w", name, err)
		}
		regs = append(regs, model.Registration{Name: name, RegisteredAt: at})
	}
	sort.Slice(regs, func(i, j int) bool {
		return regs[i].Name < regs[j].Name
	})
	return regs, nil
}
