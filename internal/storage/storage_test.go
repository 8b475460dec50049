package storage

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Missing keys read as nil, not as an error.
	value, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))

	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), value)

	require.NoError(t, store.Remove(ctx, "k"))

	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := []byte("payload")
	require.NoError(t, store.Set(ctx, "k", original))
	original[0] = 'X'

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), value)

	// Mutating the returned slice must not poison the stored value either.
	value[0] = 'Y'

	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), value)
}

func TestNoopStoreNeverErrors(t *testing.T) {
	store := NewNoopStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, store.Remove(ctx, "k"))
}

func TestRedisStorePrefixesAndRefreshesTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, "checkout:", 20*time.Minute)
	ctx := context.Background()

	mock.ExpectSet("checkout:tok-1", []byte("v"), 20*time.Minute).SetVal("OK")
	require.NoError(t, store.Set(ctx, "tok-1", []byte("v")))

	mock.ExpectGet("checkout:tok-1").SetVal("v")
	value, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), value)

	// A Redis miss is a nil value, matching the Port contract.
	mock.ExpectGet("checkout:tok-2").RedisNil()
	value, err = store.Get(ctx, "tok-2")
	require.NoError(t, err)
	require.Nil(t, value)

	mock.ExpectDel("checkout:tok-1").SetVal(1)
	require.NoError(t, store.Remove(ctx, "tok-1"))

	require.NoError(t, mock.ExpectationsWereMet())
}
