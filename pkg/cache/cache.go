// Package cache stores pipeline results between runs.
//
// A [Cache] is a byte store with expiry. Three backends exist: [NullCache]
// disables caching, [FileCache] keeps entries on disk for the CLI and
// [RedisCache] shares them between server replicas. [Compress] wraps any
// backend with zstd compression, which pays off for expanded models that
// are much larger than their source.
//
// Keys are built by a [Keyer] from content hashes (blake3, see [Hash]) and
// the options that affect the result, so a changed model or option never
// hits a stale entry.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Time-to-live of the cached stages.
const (
	TTLGraph  = 7 * 24 * time.Hour
	TTLExport = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the entry for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string
	Dir      string // file backend directory
	RedisURL string // redis backend URL, redis://[user:pass@]host:port/db
	Compress bool
}

// Open creates the backend named by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		c, err = NewFileCache(cfg.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Compress {
		c = Compress(c)
	}
	return c, nil
}

// GetJSON decodes the entry for key into v. It returns [ErrCacheMiss] when
// the key is absent or the entry does not decode.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit || json.Unmarshal(data, v) != nil {
		return ErrCacheMiss
	}
	return nil
}

// SetJSON stores v encoded as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
