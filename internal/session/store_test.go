package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	_, ok, err := store.Get(ctx, RoleKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, RoleKey, "vvb"))
	v, ok, err := store.Get(ctx, RoleKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "vvb", v)

	require.NoError(t, store.Delete(ctx, RoleKey))
	_, ok, err = store.Get(ctx, RoleKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	store, err := DialRedisStore(ctx, "localhost:6379", "", 0, "mrv-dashboard-test:")
	if err != nil {
		t.Skipf("redis is not available: %s", err)
	}
	defer store.Close()

	_ = store.Delete(context.Background(), RoleKey)
	testStore(t, store)
}
