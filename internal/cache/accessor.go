package cache

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/observability"
)

// envelope distinguishes a cached "no result" from an absent entry.
type envelope struct {
	Found bool            `json:"found"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Options configures an Accessor.
type Options struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics
	// OpTimeout bounds each Get and Delete. A timed-out Get is a miss.
	OpTimeout time.Duration
	// PopulateTimeout bounds the background Set after a miss.
	PopulateTimeout time.Duration
	// NotFound is the store sentinel that is cached as a negative result.
	NotFound error
}

// Accessor wraps store reads with a cache check and store writes with
// invalidation. Cache failures never reach callers.
type Accessor struct {
	store           Store
	logger          *zap.Logger
	metrics         *observability.Metrics
	opTimeout       time.Duration
	populateTimeout time.Duration
	notFound        error
	pending         sync.WaitGroup
	gens            generations
}

const generationSlots = 1024

// generations counts invalidations and refreshes per key. A background or
// refresh write only lands if its key's counter has not moved since the
// value was read or written. Keys share slots by hash; a collision only
// costs a skipped cache write.
type generations struct {
	slots [generationSlots]atomic.Uint64
}

func (g *generations) slot(key Key) *atomic.Uint64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &g.slots[h.Sum32()%generationSlots]
}

func (g *generations) current(key Key) uint64 { return g.slot(key).Load() }

func (g *generations) advance(key Key) uint64 { return g.slot(key).Add(1) }

// NewAccessor builds an accessor over store.
func NewAccessor(store Store, opts Options) *Accessor {
	if store == nil {
		store = NoopStore{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 200 * time.Millisecond
	}
	if opts.PopulateTimeout <= 0 {
		opts.PopulateTimeout = time.Second
	}
	return &Accessor{
		store:           store,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		opTimeout:       opts.OpTimeout,
		populateTimeout: opts.PopulateTimeout,
		notFound:        opts.NotFound,
	}
}

// ReadThrough returns the cached value for key, or loads it from the store.
// On a miss the loaded value is returned immediately and written to the
// cache in the background; a failed write only costs a future miss.
func ReadThrough[T any](ctx context.Context, a *Accessor, key Key, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if value, hit, err := lookup[T](ctx, a, key); hit {
		return value, err
	}

	gen := a.gens.current(key)
	value, err := load(ctx)
	switch {
	case err == nil:
		if payload, encErr := encode(value); encErr == nil {
			a.populate(ctx, key, payload, ttl, gen)
		} else {
			a.logger.Warn("cache encode failed", zap.String("key", key.String()), zap.Error(encErr))
		}
	case a.notFound != nil && errors.Is(err, a.notFound):
		a.populate(ctx, key, negativePayload, ttl, gen)
	}
	return value, err
}

// WriteThrough performs mutate and, only if it succeeds, invalidates every
// key returned by affected before returning. Invalidation failures are
// logged and never turn a committed write into an error.
func WriteThrough[T any](ctx context.Context, a *Accessor, mutate func(context.Context) (T, error), affected func(T) []Key) (T, error) {
	result, err := mutate(ctx)
	if err != nil {
		return result, err
	}
	if affected != nil {
		a.Invalidate(ctx, affected(result)...)
	}
	return result, nil
}

// RefreshThrough performs mutate and stores the fresh result under key.
// If the cache write fails, or another write to key overlapped this one,
// the key is deleted instead so an older value cannot outlive the write.
func RefreshThrough[T any](ctx context.Context, a *Accessor, key Key, ttl time.Duration, mutate func(context.Context) (T, error)) (T, error) {
	gen := a.gens.current(key)
	result, err := mutate(ctx)
	if err != nil {
		return result, err
	}
	put(ctx, a, key, ttl, result, gen)
	return result, nil
}

// Put writes value under key synchronously, falling back to invalidation.
func Put[T any](ctx context.Context, a *Accessor, key Key, ttl time.Duration, value T) {
	put(ctx, a, key, ttl, value, a.gens.current(key))
}

func put[T any](ctx context.Context, a *Accessor, key Key, ttl time.Duration, value T, gen uint64) {
	ctx = context.WithoutCancel(ctx)

	if !a.gens.slot(key).CompareAndSwap(gen, gen+1) {
		a.logger.Debug("overlapping write, invalidating", zap.String("key", key.String()))
		a.Invalidate(ctx, key)
		return
	}

	payload, err := encode(value)
	if err == nil {
		setCtx, cancel := context.WithTimeout(ctx, a.opTimeout)
		err = a.store.Set(setCtx, key.String(), payload, ttl)
		cancel()
	}
	if err != nil {
		a.metrics.RecordCacheOp(observability.CacheOpSet, observability.CacheResultError)
		a.logger.Warn("cache refresh failed, invalidating", zap.String("key", key.String()), zap.Error(err))
		a.Invalidate(ctx, key)
		return
	}
	a.metrics.RecordCacheOp(observability.CacheOpSet, observability.CacheResultOK)
	if a.gens.current(key) != gen+1 {
		a.Invalidate(ctx, key)
	}
}

// Invalidate deletes every key, attempting all of them even when some fail.
// It returns the number of keys that could not be deleted.
func (a *Accessor) Invalidate(ctx context.Context, keys ...Key) int {
	ctx = context.WithoutCancel(ctx)

	failed := 0
	for _, key := range dedupe(keys) {
		a.gens.advance(key)
		delCtx, cancel := context.WithTimeout(ctx, a.opTimeout)
		err := a.store.Delete(delCtx, key.String())
		cancel()
		if err != nil {
			failed++
			a.metrics.RecordCacheOp(observability.CacheOpDelete, observability.CacheResultError)
			a.metrics.RecordInvalidationFailure()
			a.logger.Warn("cache invalidation failed", zap.String("key", key.String()), zap.Error(err))
			continue
		}
		a.metrics.RecordCacheOp(observability.CacheOpDelete, observability.CacheResultOK)
	}
	return failed
}

// Flush drops every cached entry. Only latency is affected.
func (a *Accessor) Flush(ctx context.Context) error {
	if err := a.store.Flush(ctx); err != nil {
		a.metrics.RecordCacheOp(observability.CacheOpFlush, observability.CacheResultError)
		return err
	}
	a.metrics.RecordCacheOp(observability.CacheOpFlush, observability.CacheResultOK)
	a.logger.Info("cache flushed")
	return nil
}

// Wait blocks until background populations have finished.
func (a *Accessor) Wait() {
	a.pending.Wait()
}

var negativePayload = mustMarshal(envelope{Found: false})

func lookup[T any](ctx context.Context, a *Accessor, key Key) (T, bool, error) {
	var zero T

	getCtx, cancel := context.WithTimeout(ctx, a.opTimeout)
	raw, found, err := a.store.Get(getCtx, key.String())
	cancel()
	if err != nil {
		a.metrics.RecordCacheOp(observability.CacheOpGet, observability.CacheResultError)
		a.logger.Warn("cache get failed, reading store", zap.String("key", key.String()), zap.Error(err))
		return zero, false, nil
	}
	if !found {
		a.metrics.RecordCacheOp(observability.CacheOpGet, observability.CacheResultMiss)
		return zero, false, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		a.logger.Warn("cache entry undecodable", zap.String("key", key.String()), zap.Error(err))
		return zero, false, nil
	}
	if !env.Found {
		if a.notFound == nil {
			return zero, false, nil
		}
		a.metrics.RecordCacheOp(observability.CacheOpGet, observability.CacheResultHit)
		return zero, true, a.notFound
	}

	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		a.logger.Warn("cache entry undecodable", zap.String("key", key.String()), zap.Error(err))
		return zero, false, nil
	}
	a.metrics.RecordCacheOp(observability.CacheOpGet, observability.CacheResultHit)
	return value, true, nil
}

// populate stores payload in the background on a context detached from
// the request. gen is the key's generation before the value was loaded:
// if a write invalidated or refreshed the key since, the value is stale
// and is either not stored or removed again.
func (a *Accessor) populate(ctx context.Context, key Key, payload []byte, ttl time.Duration, gen uint64) {
	if ttl <= 0 {
		return
	}
	a.pending.Add(1)
	go func() {
		defer a.pending.Done()

		if a.gens.current(key) != gen {
			return
		}

		setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.populateTimeout)
		defer cancel()

		if err := a.store.Set(setCtx, key.String(), payload, ttl); err != nil {
			a.metrics.RecordCacheOp(observability.CacheOpSet, observability.CacheResultError)
			a.logger.Warn("cache populate failed", zap.String("key", key.String()), zap.Error(err))
			return
		}
		a.metrics.RecordCacheOp(observability.CacheOpSet, observability.CacheResultOK)
		if a.gens.current(key) != gen {
			a.Invalidate(ctx, key)
		}
	}()
}

func encode[T any](value T) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Found: true, Data: data})
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
