package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/dto"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/validation"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/service"
)

// BlogsHandler exposes the blog.
type BlogsHandler struct {
	blogs    *service.BlogService
	validate *validation.Validator
}

// NewBlogsHandler constructs handler.
func NewBlogsHandler(blogs *service.BlogService, v *validation.Validator) *BlogsHandler {
	return &BlogsHandler{blogs: blogs, validate: v}
}

func (h *BlogsHandler) List(c *fiber.Ctx) error {
	blogs, err := h.blogs.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, blogs)
}

func (h *BlogsHandler) Get(c *fiber.Ctx) error {
	blog, err := h.blogs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, blog)
}

func (h *BlogsHandler) Create(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.BlogCreateRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	blog, err := h.blogs.Create(c.UserContext(), identity, &domain.Blog{Title: req.Title, Body: req.Body, Tags: req.Tags})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, blog)
}

func (h *BlogsHandler) Update(c *fiber.Ctx) error {
	var req dto.BlogUpdateRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	blog, err := h.blogs.Update(c.UserContext(), c.Params("id"), req.ToPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, blog)
}

func (h *BlogsHandler) Delete(c *fiber.Ctx) error {
	if err := h.blogs.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"id": c.Params("id")})
}

// NewsletterHandler exposes newsletter subscriptions.
type NewsletterHandler struct {
	newsletter *service.NewsletterService
	validate   *validation.Validator
}

// NewNewsletterHandler constructs handler.
func NewNewsletterHandler(newsletter *service.NewsletterService, v *validation.Validator) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter, validate: v}
}

func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.NewsletterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	sub, err := h.newsletter.Subscribe(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, sub)
}

func (h *NewsletterHandler) Unsubscribe(c *fiber.Ctx) error {
	var req dto.NewsletterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.newsletter.Unsubscribe(c.UserContext(), req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"message": "unsubscribed"})
}

func (h *NewsletterHandler) List(c *fiber.Ctx) error {
	subs, err := h.newsletter.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, subs)
}
