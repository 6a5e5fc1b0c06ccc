package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/storage"
)

// lockRetryDelay is how often a contended lock key is polled
const lockRetryDelay = 25 * time.Millisecond

// unlockScript deletes the lock only if we still own it
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Storage is a Redis-backed implementation of the storage backend.
// The whole document lives under one string key, so SET replaces it atomically.
type Storage struct {
	client *redis.Client
	cfg    Config
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
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.Key == "" {
		cfg.Key = DefaultConfig().Key
	}
	if cfg.LockTTL == 0 {
		cfg.LockTTL = DefaultConfig().LockTTL
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interfaces
var (
	_ storage.Backend = (*Storage)(nil)
	_ storage.Locker  = (*Storage)(nil)
)

func (s *Storage) lockKey() string {
	return s.cfg.Key + ":lock"
}

func (s *Storage) ReadDocument(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.cfg.Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Storage) WriteDocument(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, s.cfg.Key, data, 0).Err()
}

// Lock acquires a SET NX lease on the lock key, polling until ctx is done
func (s *Storage) Lock(ctx context.Context) (func() error, error) {
	owner := uuid.NewString()
	ticker := time.NewTicker(lockRetryDelay)
	defer ticker.Stop()

	for {
		ok, err := s.client.SetNX(ctx, s.lockKey(), owner, s.cfg.LockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquiring document lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquiring document lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	unlock := func() error {
		// Release even if the caller's context was cancelled meanwhile
		return unlockScript.Run(context.Background(), s.client, []string{s.lockKey()}, owner).Err()
	}
	return unlock, nil
}
