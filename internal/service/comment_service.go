package service

import (
	"context"
	"strings"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
)

// CommentService manages product comments.
type CommentService struct {
	comments repository.CommentRepository
	products repository.ProductRepository
	cache    *cache.Accessor
	ttl      cache.TTLPolicy
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, products repository.ProductRepository, caching Caching) *CommentService {
	return &CommentService{comments: comments, products: products, cache: caching.accessor(), ttl: caching.TTL}
}

// ListByProduct returns the comments of a product, newest first.
func (s *CommentService) ListByProduct(ctx context.Context, productID string) ([]domain.Comment, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.ProductCommentsKey(productID), s.ttl.Standard, func(ctx context.Context) ([]domain.Comment, error) {
		return s.comments.ListByProduct(ctx, productID)
	})
	return out, translate(err, "comments")
}

// Create posts a comment as the caller.
func (s *CommentService) Create(ctx context.Context, author *domain.Identity, productID, body string) (*domain.Comment, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, translate(err, "product")
	}
	return cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.Comment, error) {
		comment := &domain.Comment{
			ProductID: productID,
			UserID:    author.ID,
			UserName:  author.Name,
			Body:      strings.TrimSpace(body),
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return nil, translate(err, "comment")
		}
		return comment, nil
	}, func(*domain.Comment) []cache.Key { return cache.CommentWriteKeys(productID) })
}

// Delete removes a comment. Only its author or an admin may do so.
func (s *CommentService) Delete(ctx context.Context, caller *domain.Identity, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return translate(err, "comment")
	}
	if comment.UserID != caller.ID && caller.Role != domain.RoleAdmin {
		return forbidden("only the author or an admin can delete this comment")
	}
	_, err = cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, translate(s.comments.Delete(ctx, commentID), "comment")
	}, func(struct{}) []cache.Key { return cache.CommentWriteKeys(comment.ProductID) })
	return err
}
