package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/events"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

func TestNewsletterEmailsAreCaseInsensitive(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	published := 0
	dispatcher.Subscribe(events.EventNewsletterSubscribed, func(context.Context, events.Event) error {
		published++
		return nil
	})
	svc := NewNewsletterService(newFakeSubscribers(), newCaching(), dispatcher)
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, "Reader@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", sub.Email)

	_, err = svc.Subscribe(ctx, "reader@example.COM")
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, 1, published)

	require.NoError(t, svc.Unsubscribe(ctx, "READER@example.com"))
	err = svc.Unsubscribe(ctx, "reader@example.com")
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))
}

func TestCommentDeleteOwnership(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: "P"})
	caching := newCaching()
	svc := NewCommentService(newFakeComments(), products, caching)
	ctx := context.Background()
	author := &domain.Identity{ID: "u1", Name: "Ada", Role: domain.RoleUser}
	stranger := &domain.Identity{ID: "u2", Role: domain.RoleUser}
	admin := &domain.Identity{ID: "a1", Role: domain.RoleAdmin}

	c1, err := svc.Create(ctx, author, "P", "nice")
	require.NoError(t, err)
	c2, err := svc.Create(ctx, author, "P", "still nice")
	require.NoError(t, err)

	listed, err := svc.ListByProduct(ctx, "P")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	caching.Accessor.Wait()

	err = svc.Delete(ctx, stranger, c1.ID)
	assert.True(t, apperrors.IsStatus(err, http.StatusForbidden))

	require.NoError(t, svc.Delete(ctx, author, c1.ID))
	require.NoError(t, svc.Delete(ctx, admin, c2.ID))

	listed, err = svc.ListByProduct(ctx, "P")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestProductNotFoundIsCachedNegatively(t *testing.T) {
	products := newFakeProducts()
	caching := newCaching()
	svc := NewProductService(products, nil, caching, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, "ghost")
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))
	caching.Accessor.Wait()

	_, err = svc.Get(ctx, "ghost")
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))
	assert.Equal(t, 1, products.readCount())

	created, err := svc.Create(ctx, &domain.Product{Name: " Desk ", Price: 99, Stock: 1})
	require.NoError(t, err)
	assert.Equal(t, "Desk", created.Name)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProductUpdateRefreshesListing(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: "P", Name: "Old", Price: 1})
	caching := newCaching()
	svc := NewProductService(products, newFakeLikes(), caching, nil)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.Get(ctx, "P")
	require.NoError(t, err)
	caching.Accessor.Wait()

	name := "New"
	_, err = svc.Update(ctx, "P", domain.ProductPatch{Name: &name})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New", all[0].Name)

	require.NoError(t, svc.Delete(ctx, "P"))
	_, err = svc.Get(ctx, "P")
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))
}

func TestProductDeleteClearsLikerViews(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: "P", Name: "Mug"})
	likes := newFakeLikes()
	caching := newCaching()
	likeSvc := NewLikeService(likes, products, caching, nil)
	productSvc := NewProductService(products, likes, caching, nil)
	ctx := context.Background()

	_, err := likeSvc.Like(ctx, "u1", "P")
	require.NoError(t, err)
	mine, err := likeSvc.UserLikes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	caching.Accessor.Wait()

	require.NoError(t, productSvc.Delete(ctx, "P"))

	mine, err = likeSvc.UserLikes(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}
