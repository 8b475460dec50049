package storage

import "context"

// NoopStore is the degradation target when no backing store is available:
// every read misses and every write disappears, but nothing errors. Stores
// built on it keep working against their in-memory snapshot for the current
// call only.
type NoopStore struct{}

func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (NoopStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, nil
}

func (NoopStore) Set(ctx context.Context, key string, value []byte) error {
	return nil
}

func (NoopStore) Remove(ctx context.Context, key string) error {
	return nil
}
