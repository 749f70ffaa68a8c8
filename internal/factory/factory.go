package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/pelada/internal/config"
	"github.com/mcoot/pelada/internal/dependencies/clock"
	"github.com/mcoot/pelada/internal/dependencies/random"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/admission"
	"github.com/mcoot/pelada/internal/services/balancer"
	"github.com/mcoot/pelada/internal/services/playerbase"
	"github.com/mcoot/pelada/internal/storage"
	"github.com/mcoot/pelada/internal/storage/leveldb"
	"github.com/mcoot/pelada/internal/storage/memory"
	"github.com/mcoot/pelada/internal/storage/postgres"
	redisstorage "github.com/mcoot/pelada/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
	StorageTypeLevelDB  = "leveldb"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	PlayerBase *playerbase.Service
	Admission  *admission.Controller
	Balancer   *balancer.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DatabaseURL is the PostgreSQL connection string (required if StorageType is "postgres")
	DatabaseURL string
	// LevelDBDir is the database directory (required if StorageType is "leveldb")
	LevelDBDir string
	// PlayerBase supplies the player base. If nil, players must be loaded
	// with PlayerBase.LoadPlayers
	PlayerBase playerbase.Provider
	// Limits caps the roster. If zero, model.DefaultLimits() is used
	Limits model.Limits
	// BalancerVariant is the default split algorithm
	BalancerVariant balancer.Variant
}

// ConfigFromEnv builds a factory Config from the server configuration
func ConfigFromEnv(cfg *config.Config, logger *slog.Logger) (Config, error) {
	variant, err := balancer.ParseVariant(cfg.BalancerVariant)
	if err != nil {
		return Config{}, err
	}

	fc := Config{
		Logger:          logger,
		StorageType:     cfg.StorageType,
		DatabaseURL:     cfg.DatabaseURL,
		LevelDBDir:      cfg.LevelDBDir,
		Limits:          model.Limits{MaxOutfield: cfg.MaxOutfield, MaxGoalkeepers: cfg.MaxGoalkeepers},
		BalancerVariant: variant,
	}
	if cfg.PlayerBasePath != "" {
		fc.PlayerBase = playerbase.NewFileProvider(cfg.PlayerBasePath, cfg.PlayerBaseSheet)
	}
	if cfg.StorageType == StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.KeyPrefix = cfg.RedisKeyPrefix
		redisCfg.RegistrationTTL = cfg.RegistrationTTL
		fc.RedisConfig = &redisCfg
	}
	return fc, nil
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	limits := cfg.Limits
	if limits == (model.Limits{}) {
		limits = model.DefaultLimits()
	}

	return newWithDependencies(store, clk, rnd, cfg.PlayerBase, limits, cfg.BalancerVariant, logger), nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DatabaseURL required when StorageType is postgres")
		}
		return postgres.New(ctx, cfg.DatabaseURL)
	case StorageTypeLevelDB:
		if cfg.LevelDBDir == "" {
			return nil, errors.New("LevelDBDir required when StorageType is leveldb")
		}
		return leveldb.New(cfg.LevelDBDir)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis', 'postgres' or 'leveldb'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	provider playerbase.Provider,
	limits model.Limits,
	variant balancer.Variant,
	logger *slog.Logger,
) *App {
	base := playerbase.New(provider, logger)
	admissionController := admission.NewController(store, base, clk, limits, logger)
	balancerService := balancer.New(variant, rnd)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		PlayerBase: base,
		Admission:  admissionController,
		Balancer:   balancerService,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
