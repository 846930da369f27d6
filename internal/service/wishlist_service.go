package service

import (
	"context"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
)

// WishlistService manages per-user wishlists.
type WishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	cache     *cache.Accessor
	ttl       cache.TTLPolicy
}

// NewWishlistService constructs the service.
func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository, caching Caching) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products, cache: caching.accessor(), ttl: caching.TTL}
}

// Get returns the caller's wishlist.
func (s *WishlistService) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.WishlistKey(userID), s.ttl.Volatile, func(ctx context.Context) (*domain.Wishlist, error) {
		return s.wishlists.Get(ctx, userID)
	})
	return out, translate(err, "wishlist")
}

// Add puts a product on the wishlist. Adding twice is a no-op.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, translate(err, "product")
	}
	out, err := cache.RefreshThrough(ctx, s.cache, cache.WishlistKey(userID), s.ttl.Volatile, func(ctx context.Context) (*domain.Wishlist, error) {
		return s.wishlists.Add(ctx, userID, productID)
	})
	return out, translate(err, "wishlist")
}

// Remove takes a product off the wishlist.
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	out, err := cache.RefreshThrough(ctx, s.cache, cache.WishlistKey(userID), s.ttl.Volatile, func(ctx context.Context) (*domain.Wishlist, error) {
		return s.wishlists.Remove(ctx, userID, productID)
	})
	return out, translate(err, "wishlist item")
}
