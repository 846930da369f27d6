package dto

import "github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"

// ProductCreateRequest payload for POST /api/products.
type ProductCreateRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Category    string   `json:"category" validate:"max=100"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

// ToProduct converts the payload into a new product.
func (r ProductCreateRequest) ToProduct() *domain.Product {
	return &domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		Images:      r.Images,
	}
}

// ProductUpdateRequest payload for PUT /api/products/:id. Absent fields are
// left unchanged.
type ProductUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

// ToPatch converts the payload into a product patch.
func (r ProductUpdateRequest) ToPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		Images:      r.Images,
	}
}

// CommentRequest payload for POST /api/products/:id/comments.
type CommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// ReviewRequest payload for POST /api/products/:id/reviews.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// BlogCreateRequest payload for POST /api/blogs.
type BlogCreateRequest struct {
	Title string   `json:"title" validate:"required,max=200"`
	Body  string   `json:"body" validate:"required"`
	Tags  []string `json:"tags" validate:"omitempty,dive,required,max=40"`
}

// BlogUpdateRequest payload for PUT /api/blogs/:id.
type BlogUpdateRequest struct {
	Title *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Body  *string  `json:"body" validate:"omitempty,min=1"`
	Tags  []string `json:"tags" validate:"omitempty,dive,required,max=40"`
}

// ToPatch converts the payload into a blog patch.
func (r BlogUpdateRequest) ToPatch() domain.BlogPatch {
	return domain.BlogPatch{Title: r.Title, Body: r.Body, Tags: r.Tags}
}

// NewsletterRequest payload for subscribe and unsubscribe.
type NewsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}
