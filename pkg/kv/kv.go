// Package kv is the key-value layer behind the result cache. Values are opaque
// bytes so the cache can sit on Valkey in production and in memory elsewhere.
package kv

import (
	"context"
	"time"
)

// Store is a minimal key-value interface with per-key expiry.
type Store interface {
	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns ErrNotFound when key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error

	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	Close() error
}
