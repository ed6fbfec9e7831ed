// Package cache stores pipeline results keyed by content hashes.
//
// The [Cache] interface is small on purpose so the same pipeline code runs
// against every backend:
//
//   - [NullCache]: stores nothing (--no-cache)
//   - [MemoryCache]: in-process map, the default of the HTTP server
//   - [FileCache]: one JSON file per entry, the default of the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: shared cache in a TTL-indexed collection
//
// [CompressedCache] wraps any of them to store values zstd-compressed.
//
// Keys are built by a [Keyer] from the hash of the stage input, so a change
// in the document, the style overrides or the output options never reads a
// stale entry.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry
	// is a miss (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A ttl of 0 means the entry does not expire.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed, or -1
	// when the backend cannot count them.
	Clear(ctx context.Context) (int, error)
}

// Entry lifetimes per pipeline stage.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Dir is the directory of the file backend. Empty means [DefaultDir].
	Dir string

	// RedisURL is a redis:// or rediss:// URL.
	RedisURL string

	// MongoURI is a mongodb:// URI; MongoDatabase and MongoCollection
	// default to "flowschem" and "cache".
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Compress stores values zstd-compressed (see [CompressedCache]).
	Compress bool
}

// Open creates the cache described by cfg. Network backends are connected
// and pinged before Open returns.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	c, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Compress {
		return NewCompressedCache(c), nil
	}
	return c, nil
}

func open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// DefaultDir returns the cache directory using the XDG standard
// (~/.cache/flowschem/).
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "flowschem"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "flowschem"), nil
}
