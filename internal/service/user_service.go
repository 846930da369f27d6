package service

import (
	"context"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// UserService serves the admin account listing.
type UserService struct {
	users repository.UserRepository
	cache *cache.Accessor
	ttl   cache.TTLPolicy
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, caching Caching) *UserService {
	return &UserService{users: users, cache: caching.accessor(), ttl: caching.TTL}
}

// List returns every account without credentials.
func (s *UserService) List(ctx context.Context) ([]domain.UserSummary, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.UsersAllKey, s.ttl.Aggregate, func(ctx context.Context) ([]domain.UserSummary, error) {
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]domain.UserSummary, 0, len(users))
		for _, u := range users {
			out = append(out, domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt})
		}
		return out, nil
	})
	return out, translate(err, "users")
}

// UpdateRole changes an account's role. It takes effect on that account's
// next request because the role gate reads the stored role.
func (s *UserService) UpdateRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	return cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.User, error) {
		user, err := s.users.UpdateRole(ctx, userID, role)
		return user, translate(err, "user")
	}, func(*domain.User) []cache.Key { return cache.UserWriteKeys() })
}
