package auth

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// RoleSet is the set of roles permitted for an operation. There is no
// hierarchy: admin is admitted only where it is listed.
type RoleSet map[domain.Role]struct{}

// Roles builds a RoleSet.
func Roles(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s RoleSet) Has(role domain.Role) bool {
	_, ok := s[role]
	return ok
}

// Names returns the roles sorted, for messages.
func (s RoleSet) Names() []string {
	names := make([]string, 0, len(s))
	for role := range s {
		names = append(names, string(role))
	}
	sort.Strings(names)
	return names
}

// Common role sets.
var (
	AnyAccount = Roles(domain.RoleUser, domain.RoleAdmin)
	AdminOnly  = Roles(domain.RoleAdmin)
)

// Authorize admits iff identity.Role is in allowed. A nil identity is
// rejected as unauthenticated.
func Authorize(identity *domain.Identity, allowed RoleSet) error {
	if identity == nil {
		return apperrors.NewUnauthorized(MsgNoToken)
	}
	if !allowed.Has(identity.Role) {
		return apperrors.NewForbidden(string(identity.Role), allowed.Names())
	}
	return nil
}

// RequireRoles gates a route. Mount it after Verifier.Handle.
func RequireRoles(allowed RoleSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(MsgNoToken)
		}
		if err := Authorize(identity, allowed); err != nil {
			return err
		}
		return c.Next()
	}
}
