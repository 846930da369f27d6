package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartView struct {
	Items []string `json:"items"`
}

func TestReadThrough_MissThenHit(t *testing.T) {
	store := newCountingStore()
	a := newTestAccessor(store)
	src := newSource()
	src.put("p1", "lamp")
	ctx := context.Background()

	got, err := ReadThrough(ctx, a, ProductKey("p1"), time.Minute, src.load("p1"))
	require.NoError(t, err)
	assert.Equal(t, "lamp", got)
	a.Wait()

	got, err = ReadThrough(ctx, a, ProductKey("p1"), time.Minute, src.load("p1"))
	require.NoError(t, err)
	assert.Equal(t, "lamp", got)
	assert.Equal(t, 1, src.readCount(), "second read must be served from cache")
}

func TestReadThrough_EmptyValueIsCached(t *testing.T) {
	store := newCountingStore()
	a := newTestAccessor(store)
	loads := 0
	load := func(context.Context) (cartView, error) {
		loads++
		return cartView{Items: []string{}}, nil
	}
	ctx := context.Background()

	first, err := ReadThrough(ctx, a, CartKey("u1"), time.Minute, load)
	require.NoError(t, err)
	a.Wait()
	second, err := ReadThrough(ctx, a, CartKey("u1"), time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, 1, loads)
	assert.NotNil(t, second.Items)
	assert.Empty(t, second.Items)
	assert.Equal(t, first, second)
}

func TestReadThrough_NotFoundIsCachedNegatively(t *testing.T) {
	a := newTestAccessor(newCountingStore())
	src := newSource()
	ctx := context.Background()

	_, err := ReadThrough(ctx, a, ProductKey("missing"), time.Minute, src.load("missing"))
	require.ErrorIs(t, err, errNotFound)
	a.Wait()

	_, err = ReadThrough(ctx, a, ProductKey("missing"), time.Minute, src.load("missing"))
	require.ErrorIs(t, err, errNotFound)
	assert.Equal(t, 1, src.readCount())
}

func TestReadThrough_OtherErrorsAreNotCached(t *testing.T) {
	store := newCountingStore()
	a := newTestAccessor(store)
	boom := errors.New("store down")
	ctx := context.Background()

	_, err := ReadThrough(ctx, a, OrdersAllKey, time.Minute, func(context.Context) ([]string, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	a.Wait()

	assert.Equal(t, 0, store.Len())
}

func TestReadThrough_ExpiredEntryReloads(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	a := newTestAccessor(store)
	src := newSource()
	src.put("b1", "v1")
	ctx := context.Background()

	_, err := ReadThrough(ctx, a, BlogKey("b1"), time.Minute, src.load("b1"))
	require.NoError(t, err)
	a.Wait()

	now = now.Add(61 * time.Second)
	src.put("b1", "v2")

	got, err := ReadThrough(ctx, a, BlogKey("b1"), time.Minute, src.load("b1"))
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.Equal(t, 2, src.readCount())
}

func TestReadThrough_FailOpen(t *testing.T) {
	a := newTestAccessor(&downStore{})
	src := newSource()
	src.put("p1", "lamp")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := ReadThrough(ctx, a, ProductKey("p1"), time.Minute, src.load("p1"))
		require.NoError(t, err)
		assert.Equal(t, "lamp", got)
	}
	a.Wait()
	assert.Equal(t, 3, src.readCount())
}

func TestReadThrough_CacheTimeoutIsMiss(t *testing.T) {
	a := newTestAccessor(hangingStore{MemoryStore: NewMemoryStore()})
	src := newSource()
	src.put("p1", "lamp")

	start := time.Now()
	got, err := ReadThrough(context.Background(), a, ProductKey("p1"), time.Minute, src.load("p1"))
	require.NoError(t, err)
	assert.Equal(t, "lamp", got)
	assert.Less(t, time.Since(start), time.Second)
	a.Wait()
}

func TestReadThrough_ZeroTTLSkipsPopulation(t *testing.T) {
	store := newCountingStore()
	a := newTestAccessor(store)
	src := newSource()
	src.put("p1", "lamp")

	_, err := ReadThrough(context.Background(), a, ProductKey("p1"), 0, src.load("p1"))
	require.NoError(t, err)
	a.Wait()
	assert.Equal(t, 0, store.Len())
}

func TestWriteThrough_InvalidatesAllAffectedKeys(t *testing.T) {
	store := newCountingStore()
	a := newTestAccessor(store)
	ctx := context.Background()
	for _, k := range OrderWriteKeys("o1", "u1") {
		require.NoError(t, store.MemoryStore.Set(ctx, k.String(), []byte(`{"found":true,"data":"old"}`), time.Minute))
	}

	_, err := WriteThrough(ctx, a, func(context.Context) (string, error) {
		return "o1", nil
	}, func(id string) []Key { return OrderWriteKeys(id, "u1") })
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"order:o1", "orders:user:u1", "orders:all"}, store.deleted())
	assert.Equal(t, 0, store.Len())
}

func TestWriteThrough_FailedMutationSkipsInvalidation(t *testing.T) {
	store := newCountingStore()
	a := newTestAccessor(store)
	boom := errors.New("write failed")

	_, err := WriteThrough(context.Background(), a, func(context.Context) (string, error) {
		return "", boom
	}, func(string) []Key { return ProductWriteKeys("p1") })

	require.ErrorIs(t, err, boom)
	assert.Empty(t, store.deleted())
}

func TestWriteThrough_PartialInvalidationFailureStillSucceeds(t *testing.T) {
	store := &downStore{failKeys: map[string]bool{"order:o1": true}}
	a := newTestAccessor(store)

	got, err := WriteThrough(context.Background(), a, func(context.Context) (string, error) {
		return "o1", nil
	}, func(id string) []Key { return OrderWriteKeys(id, "u1") })

	require.NoError(t, err)
	assert.Equal(t, "o1", got)
	assert.ElementsMatch(t, []string{"order:o1", "orders:user:u1", "orders:all"}, store.deleteCalls,
		"every key must be attempted even after a failure")
}

func TestInvalidate_AbsentKeyIsNoop(t *testing.T) {
	a := newTestAccessor(NewMemoryStore())

	failed := a.Invalidate(context.Background(), ProductKey("never-cached"), ProductKey("never-cached"))

	assert.Zero(t, failed)
}

func TestInvalidate_SurvivesCancelledRequest(t *testing.T) {
	store := NewMemoryStore()
	a := newTestAccessor(store)
	require.NoError(t, store.Set(context.Background(), "blogs:all", []byte("x"), time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Zero(t, a.Invalidate(ctx, BlogsAllKey))
	assert.Equal(t, 0, store.Len())
}

func TestCacheEquivalenceAfterWrite(t *testing.T) {
	a := newTestAccessor(NewMemoryStore())
	src := newSource()
	src.put("o1", "pending")
	ctx := context.Background()

	for _, k := range OrderWriteKeys("o1", "u1") {
		_, err := ReadThrough(ctx, a, k, time.Hour, src.load("o1"))
		require.NoError(t, err)
	}
	a.Wait()

	_, err := WriteThrough(ctx, a, func(context.Context) (string, error) {
		src.put("o1", "shipped")
		return "o1", nil
	}, func(id string) []Key { return OrderWriteKeys(id, "u1") })
	require.NoError(t, err)

	for _, k := range OrderWriteKeys("o1", "u1") {
		got, err := ReadThrough(ctx, a, k, time.Hour, src.load("o1"))
		require.NoError(t, err)
		assert.Equal(t, "shipped", got, "key %s", k)
	}
}

// The write commits, then invalidates, then returns. A reader racing the
// invalidation observes the old value; once the write has returned no
// reader can.
func TestWriteThrough_StaleWindowBeforeResponse(t *testing.T) {
	store := newGatedDeleteStore()
	a := newTestAccessor(store)
	a.opTimeout = 5 * time.Second
	src := newSource()
	src.put("o1", "pending")
	ctx := context.Background()

	_, err := ReadThrough(ctx, a, OrderKey("o1"), time.Hour, src.load("o1"))
	require.NoError(t, err)
	a.Wait()

	var wg sync.WaitGroup
	returned := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := WriteThrough(ctx, a, func(context.Context) (string, error) {
			src.put("o1", "shipped")
			return "o1", nil
		}, func(id string) []Key { return []Key{OrderKey(id)} })
		assert.NoError(t, err)
		close(returned)
	}()

	<-store.entered
	stale, err := ReadThrough(ctx, a, OrderKey("o1"), time.Hour, src.load("o1"))
	require.NoError(t, err)
	assert.Equal(t, "pending", stale, "reader inside the window sees the cached value")

	select {
	case <-returned:
		t.Fatal("write responded before invalidation finished")
	default:
	}

	close(store.release)
	wg.Wait()

	fresh, err := ReadThrough(ctx, a, OrderKey("o1"), time.Hour, src.load("o1"))
	require.NoError(t, err)
	assert.Equal(t, "shipped", fresh)
}

func TestRefreshThrough_StoresFreshValue(t *testing.T) {
	store := newCountingStore()
	a := newTestAccessor(store)
	ctx := context.Background()

	_, err := RefreshThrough(ctx, a, CartKey("u1"), time.Minute, func(context.Context) (cartView, error) {
		return cartView{Items: []string{"A"}}, nil
	})
	require.NoError(t, err)

	got, err := ReadThrough(ctx, a, CartKey("u1"), time.Minute, func(context.Context) (cartView, error) {
		t.Fatal("store must not be read")
		return cartView{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, got.Items)
}

func TestRefreshThrough_FallsBackToDelete(t *testing.T) {
	store := &downStore{failKeys: map[string]bool{}}
	a := newTestAccessor(store)

	_, err := RefreshThrough(context.Background(), a, CartKey("u1"), time.Minute, func(context.Context) (cartView, error) {
		return cartView{}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"cart:user:u1"}, store.deleteCalls)
}

func TestFlushIsSafe(t *testing.T) {
	a := newTestAccessor(NewMemoryStore())
	src := newSource()
	src.put("p1", "lamp")
	ctx := context.Background()

	_, err := ReadThrough(ctx, a, ProductKey("p1"), time.Minute, src.load("p1"))
	require.NoError(t, err)
	a.Wait()

	require.NoError(t, a.Flush(ctx))

	got, err := ReadThrough(ctx, a, ProductKey("p1"), time.Minute, src.load("p1"))
	require.NoError(t, err)
	assert.Equal(t, "lamp", got)
	assert.Equal(t, 2, src.readCount())
}

func TestReadThrough_LatePopulateAfterWriteIsDropped(t *testing.T) {
	store := newGatedSetStore()
	a := newTestAccessor(store)
	src := newSource()
	src.put("o1", "pending")
	ctx := context.Background()

	got, err := ReadThrough(ctx, a, OrderKey("o1"), time.Hour, src.load("o1"))
	require.NoError(t, err)
	assert.Equal(t, "pending", got)
	<-store.entered

	_, err = WriteThrough(ctx, a, func(context.Context) (string, error) {
		src.put("o1", "shipped")
		return "o1", nil
	}, func(id string) []Key { return []Key{OrderKey(id)} })
	require.NoError(t, err)

	close(store.release)
	a.Wait()

	got, err = ReadThrough(ctx, a, OrderKey("o1"), time.Hour, src.load("o1"))
	require.NoError(t, err)
	assert.Equal(t, "shipped", got)
}

func TestReadThrough_PopulateAfterInvalidationIsSkipped(t *testing.T) {
	store := newCountingStore()
	a := newTestAccessor(store)
	ctx := context.Background()

	_, err := ReadThrough(ctx, a, BlogKey("b1"), time.Hour, func(ctx context.Context) (string, error) {
		a.Invalidate(ctx, BlogKey("b1"))
		return "old", nil
	})
	require.NoError(t, err)
	a.Wait()

	assert.Equal(t, 0, store.Len())
}

func TestRefreshThrough_OlderResultCannotOverwriteNewer(t *testing.T) {
	store := newGatedSetStore()
	a := newTestAccessor(store)
	a.opTimeout = 5 * time.Second
	ctx := context.Background()

	older := make(chan struct{})
	go func() {
		defer close(older)
		_, err := RefreshThrough(ctx, a, CartKey("u1"), time.Hour, func(context.Context) (cartView, error) {
			return cartView{Items: []string{"A"}}, nil
		})
		assert.NoError(t, err)
	}()
	<-store.entered

	_, err := RefreshThrough(ctx, a, CartKey("u1"), time.Hour, func(context.Context) (cartView, error) {
		return cartView{Items: []string{"A", "B"}}, nil
	})
	require.NoError(t, err)

	close(store.release)
	<-older

	got, err := ReadThrough(ctx, a, CartKey("u1"), time.Hour, func(context.Context) (cartView, error) {
		return cartView{Items: []string{"A", "B"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got.Items)
}
