package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

const identityKey = "auth_identity"

// Rejection messages. All three map to 401.
const (
	MsgNoToken      = "no token"
	MsgInvalidToken = "invalid or expired token"
	MsgUserNotFound = "user not found"
)

// UserLookup resolves a token subject to the stored user.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Verifier authenticates requests and attaches the resolved Identity.
type Verifier struct {
	tokens     *TokenManager
	users      UserLookup
	cookieName string
}

// NewVerifier constructs the verifier.
func NewVerifier(tokens *TokenManager, users UserLookup, cookieName string) *Verifier {
	return &Verifier{tokens: tokens, users: users, cookieName: cookieName}
}

// Verify resolves the caller. It only reads: tokens are never refreshed.
func (v *Verifier) Verify(c *fiber.Ctx) (*domain.Identity, error) {
	raw := v.credential(c)
	if raw == "" {
		return nil, apperrors.NewUnauthorized(MsgNoToken)
	}

	claims, err := v.tokens.ParseToken(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorized(MsgInvalidToken)
	}

	user, err := v.users.GetByID(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(MsgUserNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user.Identity(), nil
}

// Handle enforces authentication for protected routes.
func (v *Verifier) Handle(c *fiber.Ctx) error {
	identity, err := v.Verify(c)
	if err != nil {
		return err
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// credential prefers the session cookie over the Authorization header.
func (v *Verifier) credential(c *fiber.Ctx) string {
	if v.cookieName != "" {
		if token := strings.TrimSpace(c.Cookies(v.cookieName)); token != "" {
			return token
		}
	}

	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}
