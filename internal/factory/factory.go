package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/guestlist/internal/config"
	"github.com/mcoot/guestlist/internal/dependencies/clock"
	"github.com/mcoot/guestlist/internal/dependencies/random"
	"github.com/mcoot/guestlist/internal/services/blacklist"
	"github.com/mcoot/guestlist/internal/services/document"
	"github.com/mcoot/guestlist/internal/services/event"
	"github.com/mcoot/guestlist/internal/services/policy"
	"github.com/mcoot/guestlist/internal/services/registry"
	"github.com/mcoot/guestlist/internal/storage"
	"github.com/mcoot/guestlist/internal/storage/file"
	"github.com/mcoot/guestlist/internal/storage/memory"
	redisstorage "github.com/mcoot/guestlist/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Backend storage.Backend
	Store   *document.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry  *registry.Service
	Blacklist *blacklist.Service
	Event     *event.Service
	Policy    *policy.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Storage selects and configures the document backend
	Storage config.StorageConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired. The persisted
// document is created or migrated before New returns.
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	backend, err := newBackend(cfg.Storage)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(backend, clock.New(), random.New(), logger)
	if err := app.Store.EnsureInitialized(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("initializing document: %w", err)
	}

	logger.Info("storage ready", slog.String("type", storageType(cfg.Storage)))
	return app, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Store.Close()
}

func storageType(cfg config.StorageConfig) string {
	if cfg.Type == "" {
		return config.StorageMemory
	}
	return cfg.Type
}

func newBackend(cfg config.StorageConfig) (storage.Backend, error) {
	switch storageType(cfg) {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageFile:
		return file.New(cfg.Path)
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Redis.URL
		if cfg.Redis.Key != "" {
			redisCfg.Key = cfg.Redis.Key
		}
		if cfg.Redis.PoolSize > 0 {
			redisCfg.PoolSize = cfg.Redis.PoolSize
		}
		return redisstorage.New(redisCfg)
	default:
		return nil, fmt.Errorf("invalid storage type %q: must be 'file', 'memory' or 'redis'", cfg.Type)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(backend storage.Backend, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	store := document.New(backend, rnd, logger)

	return &App{
		Backend:   backend,
		Store:     store,
		Clock:     clk,
		Random:    rnd,
		Registry:  registry.New(store, clk, rnd, logger),
		Blacklist: blacklist.New(store, logger),
		Event:     event.New(store, logger),
		Policy:    policy.New(store, logger),
	}
}
