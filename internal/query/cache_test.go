package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewKeyEncodesParamsStably(t *testing.T) {
	a := NewKey("movies", 1, 10, "blade", "title")
	b := NewKey("movies", 1, 10, "blade", "title")
	c := NewKey("movies", 2, 10, "blade", "title")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Equal(t, "1:10:blade:title", a.Params)
}

func TestGetSetRoundtrip(t *testing.T) {
	cache := New(time.Minute)
	key := NewKey("products", "snacks", true)

	_, ok := cache.Get(key)
	require.False(t, ok)

	cache.Set(key, "payload", "products")

	got, ok := cache.Get(key)
	require.True(t, ok)
	require.Equal(t, "payload", got)
}

func TestInvalidateTags(t *testing.T) {
	cache := New(time.Minute)

	cache.Set(NewKey("movies", 1), "page1", "movies")
	cache.Set(NewKey("movies", 2), "page2", "movies")
	cache.Set(NewKey("products", "snacks"), "snacks", "products")

	cache.InvalidateTags("movies")

	_, ok := cache.Get(NewKey("movies", 1))
	require.False(t, ok)
	_, ok = cache.Get(NewKey("movies", 2))
	require.False(t, ok)

	// Other tags are untouched.
	_, ok = cache.Get(NewKey("products", "snacks"))
	require.True(t, ok)
}

func TestEntriesExpire(t *testing.T) {
	cache := New(30 * time.Second)

	current := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	key := NewKey("movies", 1)
	cache.Set(key, "payload", "movies")

	current = current.Add(29 * time.Second)
	_, ok := cache.Get(key)
	require.True(t, ok)

	current = current.Add(2 * time.Second)
	_, ok = cache.Get(key)
	require.False(t, ok)
}

func TestSetReplacesStaleTagRegistrations(t *testing.T) {
	cache := New(time.Minute)
	key := NewKey("movies", 1)

	cache.Set(key, "v1", "movies")
	cache.Set(key, "v2", "listings")

	// The old tag no longer reaches the entry.
	cache.InvalidateTags("movies")
	got, ok := cache.Get(key)
	require.True(t, ok)
	require.Equal(t, "v2", got)

	cache.InvalidateTags("listings")
	_, ok = cache.Get(key)
	require.False(t, ok)
}
