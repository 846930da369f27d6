package service

import (
	"context"
	"strings"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
)

// BlogService manages editorial posts.
type BlogService struct {
	blogs repository.BlogRepository
	cache *cache.Accessor
	ttl   cache.TTLPolicy
}

// NewBlogService constructs the service.
func NewBlogService(blogs repository.BlogRepository, caching Caching) *BlogService {
	return &BlogService{blogs: blogs, cache: caching.accessor(), ttl: caching.TTL}
}

func (s *BlogService) List(ctx context.Context) ([]domain.Blog, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.BlogsAllKey, s.ttl.Standard, s.blogs.List)
	return out, translate(err, "blogs")
}

func (s *BlogService) Get(ctx context.Context, id string) (*domain.Blog, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.BlogKey(id), s.ttl.Standard, func(ctx context.Context) (*domain.Blog, error) {
		return s.blogs.GetByID(ctx, id)
	})
	return out, translate(err, "blog")
}

// Create publishes a post under the author's name.
func (s *BlogService) Create(ctx context.Context, author *domain.Identity, blog *domain.Blog) (*domain.Blog, error) {
	blog.Title = strings.TrimSpace(blog.Title)
	blog.Author = author.Name
	return cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.Blog, error) {
		if err := s.blogs.Create(ctx, blog); err != nil {
			return nil, translate(err, "blog")
		}
		return blog, nil
	}, func(b *domain.Blog) []cache.Key { return cache.BlogWriteKeys(b.ID) })
}

func (s *BlogService) Update(ctx context.Context, id string, patch domain.BlogPatch) (*domain.Blog, error) {
	return cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.Blog, error) {
		blog, err := s.blogs.Update(ctx, id, patch)
		return blog, translate(err, "blog")
	}, func(*domain.Blog) []cache.Key { return cache.BlogWriteKeys(id) })
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	_, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, translate(s.blogs.Delete(ctx, id), "blog")
	}, func(struct{}) []cache.Key { return cache.BlogWriteKeys(id) })
	return err
}
