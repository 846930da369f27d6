// Package cache implements the cache-aside layer in front of the document
// store. The store is the writer of record; everything held here is a
// disposable, derived view that may be flushed at any time.
package cache

import (
	"context"
	"time"
)

// Store is the cache dependency. Deleting an absent key must succeed.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}

// NoopStore is used when caching is disabled. Every read misses.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NoopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopStore) Delete(context.Context, string) error { return nil }

func (NoopStore) Flush(context.Context) error { return nil }
