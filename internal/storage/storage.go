package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

var ErrNotFound = errors.New("key not found")

// KVStorage is a durable key-value store for connection settings.
type KVStorage interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Close storage connection
	Close() error
}

// Timestamped is implemented by stores that record when a key was written.
type Timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// Open opens a KVStorage from a URL. The returned storage must be closed
// after use.
//
// The following schemes are supported:
//
//   - memory
//   - redis, rediss
//   - sqlite
func Open(ctx context.Context, urlStr string) (KVStorage, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse storage URL: %w", err)
	}

	switch u.Scheme {
	case "memory":
		return NewMemoryStorage(), nil
	case "redis", "rediss":
		return OpenRedis(ctx, urlStr)
	case "sqlite":
		path := u.Opaque
		if path == "" {
			path = u.Host + u.Path
		}
		if path == "" {
			return nil, errors.New("sqlite storage URL has no path")
		}
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage scheme %q", u.Scheme)
	}
}

// Close closes s and logs a failure.
func Close(s KVStorage) {
	if err := s.Close(); err != nil {
		slog.Warn("failed to close storage", "err", err)
	}
}
