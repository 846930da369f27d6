package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
)

// ProductService manages the catalog.
type ProductService struct {
	products repository.ProductRepository
	likes    repository.LikeRepository
	cache    *cache.Accessor
	ttl      cache.TTLPolicy
	logger   *zap.Logger
}

// NewProductService constructs the service.
func NewProductService(products repository.ProductRepository, likes repository.LikeRepository, caching Caching, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, likes: likes, cache: caching.accessor(), ttl: caching.TTL, logger: logger}
}

// List returns the full catalog, newest first.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.ProductsAllKey, s.ttl.Standard, s.products.List)
	return out, translate(err, "products")
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.ProductKey(id), s.ttl.Standard, func(ctx context.Context) (*domain.Product, error) {
		return s.products.GetByID(ctx, id)
	})
	return out, translate(err, "product")
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	return cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.Product, error) {
		if err := s.products.Create(ctx, product); err != nil {
			return nil, translate(err, "product")
		}
		product.ComputeRating()
		return product, nil
	}, func(p *domain.Product) []cache.Key { return cache.ProductWriteKeys(p.ID) })
}

// Update applies a partial update.
func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	return cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.Product, error) {
		product, err := s.products.Update(ctx, id, patch)
		return product, translate(err, "product")
	}, func(*domain.Product) []cache.Key { return cache.ProductWriteKeys(id) })
}

// Delete removes a product and its like edges.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	_, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) ([]string, error) {
		if err := s.products.Delete(ctx, id); err != nil {
			return nil, translate(err, "product")
		}
		if s.likes == nil {
			return nil, nil
		}
		likers, err := s.likes.DeleteByProduct(ctx, id)
		if err != nil {
			s.logger.Warn("like cleanup failed", zap.String("product_id", id), zap.Error(err))
		}
		return likers, nil
	}, func(likers []string) []cache.Key {
		return cache.ProductDeleteKeys(id, likers...)
	})
	return err
}
