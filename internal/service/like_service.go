package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// LikeService records likes. The per-product count lives on the product
// document and only moves through atomic increments.
type LikeService struct {
	likes    repository.LikeRepository
	products repository.ProductRepository
	cache    *cache.Accessor
	ttl      cache.TTLPolicy
	logger   *zap.Logger
}

// NewLikeService constructs the service.
func NewLikeService(likes repository.LikeRepository, products repository.ProductRepository, caching Caching, logger *zap.Logger) *LikeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LikeService{likes: likes, products: products, cache: caching.accessor(), ttl: caching.TTL, logger: logger}
}

// Like records that userID likes productID.
func (s *LikeService) Like(ctx context.Context, userID, productID string) (*domain.ProductLikes, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, translate(err, "product")
	}
	_, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		if err := s.likes.Create(ctx, &domain.Like{UserID: userID, ProductID: productID}); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return struct{}{}, apperrors.NewConflict("product already liked", map[string]any{"productId": productID})
			}
			return struct{}{}, translate(err, "like")
		}
		if err := s.products.IncrementLikes(ctx, productID, 1); err != nil {
			s.rollbackLike(ctx, userID, productID)
			return struct{}{}, translate(err, "product")
		}
		return struct{}{}, nil
	}, func(struct{}) []cache.Key { return cache.LikeWriteKeys(productID, userID) })
	if err != nil {
		return nil, err
	}
	return s.countFromStore(ctx, productID)
}

// Unlike removes the caller's like.
func (s *LikeService) Unlike(ctx context.Context, userID, productID string) (*domain.ProductLikes, error) {
	_, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		if err := s.likes.Delete(ctx, userID, productID); err != nil {
			return struct{}{}, translate(err, "like")
		}
		if err := s.products.IncrementLikes(ctx, productID, -1); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return struct{}{}, translate(err, "product")
		}
		return struct{}{}, nil
	}, func(struct{}) []cache.Key { return cache.LikeWriteKeys(productID, userID) })
	if err != nil {
		return nil, err
	}
	return s.countFromStore(ctx, productID)
}

// ProductLikes returns the like count of a product.
func (s *LikeService) ProductLikes(ctx context.Context, productID string) (*domain.ProductLikes, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.ProductLikesKey(productID), s.ttl.Volatile, func(ctx context.Context) (*domain.ProductLikes, error) {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		return &domain.ProductLikes{ProductID: productID, Count: product.LikesCount}, nil
	})
	return out, translate(err, "product")
}

// UserLikes lists the caller's likes.
func (s *LikeService) UserLikes(ctx context.Context, userID string) ([]domain.Like, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.UserLikesKey(userID), s.ttl.Volatile, func(ctx context.Context) ([]domain.Like, error) {
		return s.likes.ListByUser(ctx, userID)
	})
	return out, translate(err, "likes")
}

func (s *LikeService) countFromStore(ctx context.Context, productID string) (*domain.ProductLikes, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, translate(err, "product")
	}
	return &domain.ProductLikes{ProductID: productID, Count: product.LikesCount}, nil
}

func (s *LikeService) rollbackLike(ctx context.Context, userID, productID string) {
	if err := s.likes.Delete(context.WithoutCancel(ctx), userID, productID); err != nil {
		s.logger.Error("like rollback failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
	}
}
