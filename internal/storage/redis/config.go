package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Key holds the serialized document; the lock lives at Key+":lock"
	Key string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// LockTTL bounds how long a crashed holder can block other processes
	LockTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		Key:          "guestlist:document",
		PoolSize:     10,
		MinIdleConns: 2,
		LockTTL:      10 * time.Second,
	}
}
