// Package storage provides the key-value port that the session stores write
// through. Implementations cover Redis (session-scoped, TTL-refreshed keys),
// plain process memory, and a no-op fallback used when no backing store is
// reachable so that callers degrade instead of failing.
package storage

import "context"

// Port is a minimal key-value surface. Get returns (nil, nil) for a missing
// key; absence is not an error.
type Port interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
