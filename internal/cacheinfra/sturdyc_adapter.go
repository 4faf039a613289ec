package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/viccon/sturdyc"
	"go.uber.org/zap"
)

// Config holds the configuration for the sturdyc cache adapter.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can
	// store. Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0.
	NumShards int

	// TTL is the time-to-live for cached entries. After this duration,
	// entries are considered expired. Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict when
	// the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EvictionInterval:   0,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	return nil
}

// ToSturdycOptions converts the Config to sturdyc.Option slice. Capacity,
// NumShards, TTL, and EvictionPercentage are passed directly to sturdyc.New()
// and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// SturdycService stores JSON-serialized values in a sturdyc client. Keeping
// the cached representation textual enforces the wire-format contract at the
// boundary: what a caller reads back is what a process-external store would
// have held, timestamps included.
type SturdycService struct {
	client *sturdyc.Client[string]
	log    *zap.Logger
}

// NewSturdycService creates a new sturdyc cache service adapter. It validates
// the configuration and initializes a sturdyc client with the provided
// settings.
func NewSturdycService(cfg Config, log *zap.Logger) (*SturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := sturdyc.New[string](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycService{client: client, log: log.Named("cache")}, nil
}

// Get loads the JSON value stored under key into dest. A missing entry,
// an expired entry, or a payload that no longer matches dest all count as
// a miss.
func (s *SturdycService) Get(ctx context.Context, key string, dest any) bool {
	payload, ok := s.client.Get(key)
	if !ok {
		return false
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		// A payload we can no longer decode is worthless; drop it so the
		// next write replaces it.
		s.log.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		s.client.Delete(key)
		return false
	}
	return true
}

// Set serializes value to JSON and stores it under key at the client TTL.
func (s *SturdycService) Set(ctx context.Context, key string, value any) bool {
	payload, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("cache set skipped, value not serializable", zap.String("key", key), zap.Error(err))
		return false
	}

	s.client.Set(key, string(payload))
	return true
}

// Delete removes a single entry from the cache.
func (s *SturdycService) Delete(ctx context.Context, key string) bool {
	s.client.Delete(key)
	return true
}

// ClearMatching removes all entries whose key contains fragment and returns
// the number removed. Fragment matching mirrors a pattern scan against a
// key-value store: refresh flows pass an entity identifier and expect every
// derived key for it to go.
func (s *SturdycService) ClearMatching(ctx context.Context, fragment string) int {
	removed := 0
	for _, key := range s.client.ScanKeys() {
		if strings.Contains(key, fragment) {
			s.client.Delete(key)
			removed++
		}
	}
	return removed
}
