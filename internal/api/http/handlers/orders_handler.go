package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/dto"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/validation"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/service"
)

// OrdersHandler exposes checkout and order tracking.
type OrdersHandler struct {
	orders   *service.OrderService
	validate *validation.Validator
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService, v *validation.Validator) *OrdersHandler {
	return &OrdersHandler{orders: orders, validate: v}
}

// Checkout handles POST /api/orders.
func (h *OrdersHandler) Checkout(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CheckoutRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	order, err := h.orders.Checkout(c.UserContext(), identity.ID, req.ToAddress())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, order)
}

// Mine handles GET /api/orders/me.
func (h *OrdersHandler) Mine(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListMine(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, orders)
}

// Get handles GET /api/orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrdersHandler) Cancel(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Cancel(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, orders)
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.OrderStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.UserContext(), identity.ID, c.Params("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}
