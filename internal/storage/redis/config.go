package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// KeyPrefix namespaces keys so several rosters can share one Redis
	KeyPrefix string

	// RegistrationTTL expires the whole roster this long after its last
	// change. Zero keeps it until cleared.
	RegistrationTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:             "redis://localhost:6379",
		PoolSize:        10,
		MinIdleConns:    2,
		KeyPrefix:       defaultKeyPrefix,
		RegistrationTTL: 0,
	}
}
