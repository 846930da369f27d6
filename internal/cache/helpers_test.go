package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errNotFound = errors.New("not found")

var errCacheDown = errors.New("cache unreachable")

// countingStore records every call made against an embedded MemoryStore.
type countingStore struct {
	*MemoryStore

	mu      sync.Mutex
	gets    int
	sets    map[string]int
	deletes []string
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: NewMemoryStore(), sets: map[string]int{}}
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	return s.MemoryStore.Get(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.sets[key]++
	s.mu.Unlock()
	return s.MemoryStore.Set(ctx, key, value, ttl)
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deletes = append(s.deletes, key)
	s.mu.Unlock()
	return s.MemoryStore.Delete(ctx, key)
}

func (s *countingStore) deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

// downStore fails every call, optionally only for some keys on Delete.
type downStore struct {
	mu          sync.Mutex
	deleteCalls []string
	failKeys    map[string]bool
}

func (s *downStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errCacheDown
}

func (s *downStore) Set(context.Context, string, []byte, time.Duration) error {
	return errCacheDown
}

func (s *downStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls = append(s.deleteCalls, key)
	if s.failKeys == nil || s.failKeys[key] {
		return errCacheDown
	}
	return nil
}

func (s *downStore) Flush(context.Context) error { return errCacheDown }

// hangingStore blocks every Get until the context gives up.
type hangingStore struct {
	*MemoryStore
}

func (s hangingStore) Get(ctx context.Context, _ string) ([]byte, bool, error) {
	<-ctx.Done()
	return nil, false, ctx.Err()
}

// gatedDeleteStore parks Delete until release is closed.
type gatedDeleteStore struct {
	*MemoryStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedDeleteStore() *gatedDeleteStore {
	return &gatedDeleteStore{
		MemoryStore: NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (s *gatedDeleteStore) Delete(ctx context.Context, key string) error {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return s.MemoryStore.Delete(ctx, key)
}

// source is a store-of-record double that counts reads.
type source struct {
	mu    sync.Mutex
	value map[string]string
	reads int
}

func newSource() *source {
	return &source{value: map[string]string{}}
}

func (s *source) load(id string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.reads++
		v, ok := s.value[id]
		if !ok {
			return "", errNotFound
		}
		return v, nil
	}
}

func (s *source) put(id, v string) {
	s.mu.Lock()
	s.value[id] = v
	s.mu.Unlock()
}

func (s *source) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func newTestAccessor(store Store) *Accessor {
	return NewAccessor(store, Options{
		NotFound:        errNotFound,
		OpTimeout:       50 * time.Millisecond,
		PopulateTimeout: 200 * time.Millisecond,
	})
}

// gatedSetStore parks the first Set until release is closed.
type gatedSetStore struct {
	*MemoryStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedSetStore() *gatedSetStore {
	return &gatedSetStore{
		MemoryStore: NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (s *gatedSetStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	first := false
	s.once.Do(func() {
		first = true
		close(s.entered)
	})
	if first {
		<-s.release
	}
	return s.MemoryStore.Set(ctx, key, value, ttl)
}
