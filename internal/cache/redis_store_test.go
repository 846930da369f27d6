package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "test:"), mr
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "product:p1", []byte("lamp"), time.Minute))
	assert.True(t, mr.Exists("test:product:p1"))

	val, found, err := store.Get(ctx, "product:p1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("lamp"), val)

	require.NoError(t, store.Delete(ctx, "product:p1"))
	_, found, err = store.Get(ctx, "product:p1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_DeleteAbsentKey(t *testing.T) {
	store, _ := setupRedisStore(t)

	assert.NoError(t, store.Delete(context.Background(), "never-set"))
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:user:u1", []byte("{}"), 60*time.Second))
	mr.FastForward(61 * time.Second)

	_, found, err := store.Get(ctx, "cart:user:u1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_FlushOnlyPrefixed(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, store.Flush(ctx))

	assert.False(t, mr.Exists("test:a"))
	assert.False(t, mr.Exists("test:b"))
	assert.True(t, mr.Exists("other:key"))
}

func TestRedisStore_UnreachableFailsOpenThroughAccessor(t *testing.T) {
	store, mr := setupRedisStore(t)
	mr.Close()

	a := newTestAccessor(store)
	src := newSource()
	src.put("p1", "lamp")

	got, err := ReadThrough(context.Background(), a, ProductKey("p1"), time.Minute, src.load("p1"))
	require.NoError(t, err)
	assert.Equal(t, "lamp", got)
	a.Wait()
}
