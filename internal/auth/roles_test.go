package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

func TestAuthorizeTotality(t *testing.T) {
	allRoles := []domain.Role{domain.RoleUser, domain.RoleAdmin, domain.Role("guest"), domain.Role("")}
	sets := []RoleSet{
		Roles(),
		Roles(domain.RoleUser),
		Roles(domain.RoleAdmin),
		Roles(domain.RoleUser, domain.RoleAdmin),
		Roles(domain.Role("guest")),
	}

	for _, set := range sets {
		for _, role := range allRoles {
			err := Authorize(&domain.Identity{ID: "x", Role: role}, set)
			if set.Has(role) {
				assert.NoError(t, err, "role %q set %v", role, set.Names())
			} else {
				assert.True(t, apperrors.IsStatus(err, http.StatusForbidden), "role %q set %v", role, set.Names())
			}
		}
	}
}

func TestAuthorizeNoHierarchy(t *testing.T) {
	err := Authorize(&domain.Identity{ID: "a", Role: domain.RoleAdmin}, Roles(domain.RoleUser))

	assert.True(t, apperrors.IsStatus(err, http.StatusForbidden))
	assert.Contains(t, err.Error(), "admin")
}

func TestAuthorizeNilIdentity(t *testing.T) {
	err := Authorize(nil, AnyAccount)

	assert.True(t, apperrors.IsStatus(err, http.StatusUnauthorized))
}

func TestRoleSetNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"admin", "user"}, AnyAccount.Names())
}
