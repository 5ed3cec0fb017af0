// Package store holds the single pending-payload slot shared by every tab.
package store

import (
	"context"
	"fmt"
	"time"
)

// SlotKey is the key of the pending transfer payload.
const SlotKey = "bridgeai_context_payload"

// Store is a key-value slot primitive. Implementations must make each call
// atomic for a single key; concurrent writers resolve as last write wins.
type Store interface {
	// Get returns the value under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRemote   = "remote"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	BaseDir     string        // sqlite
	RedisURL    string        // redis
	RedisTTL    time.Duration // redis key expiry; 0 disables
	DatabaseURL string        // postgres
	DaemonURL   string        // remote
	MaxOpen     int           // sqlite pool
	MaxIdle     int           // sqlite pool
}

// Open connects the backend named by opts.Backend. An empty name means sqlite.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		s, err := OpenSQLite(opts.BaseDir)
		if err != nil {
			return nil, err
		}
		s.ConfigurePool(opts.MaxOpen, opts.MaxIdle)
		return s, nil
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisURL, opts.RedisTTL)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL)
	case BackendMemory:
		return NewMemory(), nil
	case BackendRemote:
		return NewRemote(opts.DaemonURL, nil)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
