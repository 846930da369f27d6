package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/events"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// ReviewService manages reviews and keeps the product rating aggregate in
// step with them.
type ReviewService struct {
	reviews    repository.ReviewRepository
	products   repository.ProductRepository
	cache      *cache.Accessor
	ttl        cache.TTLPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewReviewService constructs the service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, caching Caching, dispatcher events.Dispatcher, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviews:    reviews,
		products:   products,
		cache:      caching.accessor(),
		ttl:        caching.TTL,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ListByProduct returns the reviews of a product.
func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.ProductReviewsKey(productID), s.ttl.Standard, func(ctx context.Context) ([]domain.Review, error) {
		return s.reviews.ListByProduct(ctx, productID)
	})
	return out, translate(err, "reviews")
}

// List returns every review for moderation.
func (s *ReviewService) List(ctx context.Context) ([]domain.Review, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.ReviewsAllKey, s.ttl.Aggregate, s.reviews.List)
	return out, translate(err, "reviews")
}

// Create posts the caller's review of a product.
func (s *ReviewService) Create(ctx context.Context, author *domain.Identity, productID string, rating int, comment string) (*domain.Review, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"field": "rating"})
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, translate(err, "product")
	}

	review, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.Review, error) {
		review := &domain.Review{
			ProductID: productID,
			UserID:    author.ID,
			UserName:  author.Name,
			Rating:    rating,
			Comment:   strings.TrimSpace(comment),
		}
		if err := s.reviews.Create(ctx, review); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return nil, apperrors.NewConflict("product already reviewed", map[string]any{"productId": productID})
			}
			return nil, translate(err, "review")
		}
		if err := s.products.AddRating(ctx, productID, int64(rating), 1); err != nil {
			if delErr := s.reviews.Delete(context.WithoutCancel(ctx), review.ID); delErr != nil {
				s.logger.Error("review rollback failed", zap.String("review_id", review.ID), zap.Error(delErr))
			}
			return nil, translate(err, "product")
		}
		return review, nil
	}, func(*domain.Review) []cache.Key { return cache.ReviewWriteKeys(productID) })
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventReviewPosted,
		SubjectID: review.ID,
		ActorID:   author.ID,
		Payload:   events.ReviewPostedPayload{ProductID: productID, Rating: rating},
	})
	return review, nil
}

// Delete removes a review and subtracts it from the product rating.
func (s *ReviewService) Delete(ctx context.Context, reviewID string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return translate(err, "review")
	}
	_, err = cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		if err := s.reviews.Delete(ctx, reviewID); err != nil {
			return struct{}{}, translate(err, "review")
		}
		if err := s.products.AddRating(ctx, review.ProductID, -int64(review.Rating), -1); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("rating adjustment failed", zap.String("product_id", review.ProductID), zap.Error(err))
		}
		return struct{}{}, nil
	}, func(struct{}) []cache.Key { return cache.ReviewWriteKeys(review.ProductID) })
	return err
}
