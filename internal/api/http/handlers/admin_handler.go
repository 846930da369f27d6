package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// AdminHandler exposes operational endpoints.
type AdminHandler struct {
	cache *cache.Accessor
}

// NewAdminHandler constructs handler.
func NewAdminHandler(accessor *cache.Accessor) *AdminHandler {
	return &AdminHandler{cache: accessor}
}

// FlushCache handles POST /api/admin/cache/flush.
func (h *AdminHandler) FlushCache(c *fiber.Ctx) error {
	if err := h.cache.Flush(c.UserContext()); err != nil {
		return apperrors.NewDomainError("CACHE_UNAVAILABLE", "cache flush failed", http.StatusServiceUnavailable, nil)
	}
	return respond(c, http.StatusOK, fiber.Map{"message": "cache flushed"})
}
