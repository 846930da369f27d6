package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/dto"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/validation"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/service"
)

// ProductsHandler exposes the catalog and the per-product social endpoints.
type ProductsHandler struct {
	products *service.ProductService
	likes    *service.LikeService
	comments *service.CommentService
	reviews  *service.ReviewService
	validate *validation.Validator
}

// ProductsDependencies bundles the services behind product routes.
type ProductsDependencies struct {
	Products *service.ProductService
	Likes    *service.LikeService
	Comments *service.CommentService
	Reviews  *service.ReviewService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(deps ProductsDependencies, v *validation.Validator) *ProductsHandler {
	return &ProductsHandler{
		products: deps.Products,
		likes:    deps.Likes,
		comments: deps.Comments,
		reviews:  deps.Reviews,
		validate: v,
	}
}

func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, products)
}

func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product)
}

func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductCreateRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.products.Create(c.UserContext(), req.ToProduct())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, product)
}

func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.ProductUpdateRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.products.Update(c.UserContext(), c.Params("id"), req.ToPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product)
}

func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"id": c.Params("id")})
}

// Likes handles GET /api/products/:id/likes.
func (h *ProductsHandler) Likes(c *fiber.Ctx) error {
	likes, err := h.likes.ProductLikes(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, likes)
}

// Like handles POST /api/products/:id/like.
func (h *ProductsHandler) Like(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	likes, err := h.likes.Like(c.UserContext(), identity.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, likes)
}

// Unlike handles DELETE /api/products/:id/like.
func (h *ProductsHandler) Unlike(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	likes, err := h.likes.Unlike(c.UserContext(), identity.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, likes)
}

// MyLikes handles GET /api/likes/me.
func (h *ProductsHandler) MyLikes(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	likes, err := h.likes.UserLikes(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, likes)
}

// Comments handles GET /api/products/:id/comments.
func (h *ProductsHandler) Comments(c *fiber.Ctx) error {
	comments, err := h.comments.ListByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, comments)
}

// AddComment handles POST /api/products/:id/comments.
func (h *ProductsHandler) AddComment(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	comment, err := h.comments.Create(c.UserContext(), identity, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/comments/:id.
func (h *ProductsHandler) DeleteComment(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"id": c.Params("id")})
}

// Reviews handles GET /api/products/:id/reviews.
func (h *ProductsHandler) Reviews(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, reviews)
}

// AddReview handles POST /api/products/:id/reviews.
func (h *ProductsHandler) AddReview(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	review, err := h.reviews.Create(c.UserContext(), identity, c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, review)
}

// AllReviews handles GET /api/reviews.
func (h *ProductsHandler) AllReviews(c *fiber.Ctx) error {
	reviews, err := h.reviews.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, reviews)
}

// DeleteReview handles DELETE /api/reviews/:id.
func (h *ProductsHandler) DeleteReview(c *fiber.Ctx) error {
	if err := h.reviews.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"id": c.Params("id")})
}
