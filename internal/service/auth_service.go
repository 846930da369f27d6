package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/auth"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

const msgBadCredentials = "invalid email or password"

// AuthService coordinates registration, login and self-service account
// changes.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	cache      *cache.Accessor
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, caching Caching, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   tokens,
		cache:      caching.accessor(),
		bcryptCost: bcryptCost,
	}
}

// Register creates a user account with the default role and signs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", time.Time{}, translate(err, "user")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	user, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.User, error) {
		user := &domain.User{
			Name:         strings.TrimSpace(name),
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleUser,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return nil, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
			}
			return nil, translate(err, "user")
		}
		return user, nil
	}, func(*domain.User) []cache.Key { return cache.UserWriteKeys() })
	if err != nil {
		return nil, "", time.Time{}, err
	}

	return s.issue(user)
}

// Login authenticates by email and password. Unknown e-mails and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, "", time.Time{}, translate(err, "user")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(msgBadCredentials)
	}
	return s.issue(user)
}

// Me returns the stored account of the caller.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	return user, translate(err, "user")
}

// UpdateProfile changes the caller's name and e-mail.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	return cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.User, error) {
		user, err := s.users.UpdateProfile(ctx, userID, strings.TrimSpace(name), normalizeEmail(email))
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
		}
		return user, translate(err, "user")
	}, func(*domain.User) []cache.Key { return cache.UserWriteKeys() })
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return translate(err, "user")
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("current password is incorrect", map[string]any{"field": "currentPassword"})
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return translate(s.users.UpdatePassword(ctx, userID, hash), "user")
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*domain.User, string, time.Time, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
