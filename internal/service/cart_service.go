package service

import (
	"context"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// CartService manages per-user carts. Every write stores the fresh cart
// under the user's key, so the next read is served from cache.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	cache    *cache.Accessor
	ttl      cache.TTLPolicy
}

// NewCartService constructs the service.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, caching Caching) *CartService {
	return &CartService{carts: carts, products: products, cache: caching.accessor(), ttl: caching.TTL}
}

// Get returns the caller's cart. A user without a stored cart gets an
// empty one.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.CartKey(userID), s.ttl.Volatile, func(ctx context.Context) (*domain.Cart, error) {
		return s.carts.Get(ctx, userID)
	})
	return out, translate(err, "cart")
}

// AddItem adds quantity of a product, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", map[string]any{"field": "quantity"})
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, translate(err, "product")
	}
	if product.Stock < quantity {
		return nil, apperrors.NewConflict("insufficient stock", map[string]any{"productId": productID, "available": product.Stock})
	}

	return s.refresh(ctx, userID, func(ctx context.Context) (*domain.Cart, error) {
		return s.carts.AddItem(ctx, userID, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		})
	})
}

// UpdateItem sets the quantity of an existing line. Zero removes it.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, apperrors.NewValidationError("quantity must not be negative", map[string]any{"field": "quantity"})
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}
	return s.refresh(ctx, userID, func(ctx context.Context) (*domain.Cart, error) {
		return s.carts.SetQuantity(ctx, userID, productID, quantity)
	})
}

// RemoveItem drops a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.refresh(ctx, userID, func(ctx context.Context) (*domain.Cart, error) {
		return s.carts.RemoveItem(ctx, userID, productID)
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.refresh(ctx, userID, func(ctx context.Context) (*domain.Cart, error) {
		return s.carts.Clear(ctx, userID)
	})
}

func (s *CartService) refresh(ctx context.Context, userID string, mutate func(context.Context) (*domain.Cart, error)) (*domain.Cart, error) {
	out, err := cache.RefreshThrough(ctx, s.cache, cache.CartKey(userID), s.ttl.Volatile, mutate)
	return out, translate(err, "cart item")
}
