package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/dto"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/validation"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/auth"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/service"
)

// SessionCookieConfig controls the session cookie set on login.
type SessionCookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler exposes account endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	validate *validation.Validator
	cookie   SessionCookieConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, v *validation.Validator, cookie SessionCookieConfig) *AuthHandler {
	return &AuthHandler{auth: authService, validate: v, cookie: cookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	c.Cookie(auth.SessionCookie(h.cookie.Name, token, exp, h.cookie.Secure))
	return respond(c, http.StatusCreated, dto.SessionResponse{
		User: dto.NewUserResponse(user),
		Auth: dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	c.Cookie(auth.SessionCookie(h.cookie.Name, token, exp, h.cookie.Secure))
	return respond(c, http.StatusOK, dto.SessionResponse{
		User: dto.NewUserResponse(user),
		Auth: dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so this only
// clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(auth.ExpiredSessionCookie(h.cookie.Name, h.cookie.Secure))
	return respond(c, http.StatusOK, fiber.Map{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.auth.UpdateProfile(c.UserContext(), identity.ID, req.Name, req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewUserResponse(user))
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"message": "password updated"})
}

// UsersHandler exposes the admin account endpoints.
type UsersHandler struct {
	users    *service.UserService
	validate *validation.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, v *validation.Validator) *UsersHandler {
	return &UsersHandler{users: users, validate: v}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}

// UpdateRole handles PUT /api/users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.RoleUpdateRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateRole(c.UserContext(), c.Params("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewUserResponse(user))
}
