package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie builds the HTTP-only cookie carrying the session token.
func SessionCookie(name, token string, expiresAt time.Time, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// ExpiredSessionCookie clears the session cookie on the client.
func ExpiredSessionCookie(name string, secure bool) *fiber.Cookie {
	return SessionCookie(name, "", time.Unix(0, 0), secure)
}
