package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/dto"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/validation"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/service"
)

// CartHandler exposes the caller's cart and wishlist.
type CartHandler struct {
	carts     *service.CartService
	wishlists *service.WishlistService
	validate  *validation.Validator
}

// NewCartHandler constructs handler.
func NewCartHandler(carts *service.CartService, wishlists *service.WishlistService, v *validation.Validator) *CartHandler {
	return &CartHandler{carts: carts, wishlists: wishlists, validate: v}
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	cart, err := h.carts.Get(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CartItemRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	cart, err := h.carts.AddItem(c.UserContext(), identity.ID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CartQuantityRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	cart, err := h.carts.UpdateItem(c.UserContext(), identity.ID, c.Params("productId"), req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	cart, err := h.carts.RemoveItem(c.UserContext(), identity.ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cart)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	cart, err := h.carts.Clear(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cart)
}

// Wishlist handles GET /api/wishlist.
func (h *CartHandler) Wishlist(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	wl, err := h.wishlists.Get(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, wl)
}

// AddToWishlist handles POST /api/wishlist/:productId.
func (h *CartHandler) AddToWishlist(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	wl, err := h.wishlists.Add(c.UserContext(), identity.ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, wl)
}

// RemoveFromWishlist handles DELETE /api/wishlist/:productId.
func (h *CartHandler) RemoveFromWishlist(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	wl, err := h.wishlists.Remove(c.UserContext(), identity.ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, wl)
}
