package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

func TestConcurrentLikesAreNotLost(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: "P", Name: "Mug"})
	caching := newCaching()
	svc := NewLikeService(newFakeLikes(), products, caching, nil)
	ctx := context.Background()

	_, err := svc.ProductLikes(ctx, "P")
	require.NoError(t, err)
	caching.Accessor.Wait()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Like(ctx, fmt.Sprintf("user-%d", i), "P")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	caching.Accessor.Wait()

	likes, err := svc.ProductLikes(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes.Count)
}

func TestLikeTwiceIsRejected(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: "P"})
	svc := NewLikeService(newFakeLikes(), products, newCaching(), nil)
	ctx := context.Background()

	_, err := svc.Like(ctx, "u1", "P")
	require.NoError(t, err)
	_, err = svc.Like(ctx, "u1", "P")

	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
	likes, err := svc.ProductLikes(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes.Count)
}

func TestUnlikeUpdatesCachedViews(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: "P"})
	caching := newCaching()
	svc := NewLikeService(newFakeLikes(), products, caching, nil)
	ctx := context.Background()

	_, err := svc.Like(ctx, "u1", "P")
	require.NoError(t, err)
	mine, err := svc.UserLikes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	caching.Accessor.Wait()

	res, err := svc.Unlike(ctx, "u1", "P")
	require.NoError(t, err)
	assert.Zero(t, res.Count)

	mine, err = svc.UserLikes(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = svc.Unlike(ctx, "u1", "P")
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))
}

func TestLikeUnknownProduct(t *testing.T) {
	svc := NewLikeService(newFakeLikes(), newFakeProducts(), newCaching(), nil)

	_, err := svc.Like(context.Background(), "u1", "nope")

	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))
}
