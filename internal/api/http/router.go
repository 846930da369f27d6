package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/http/handlers"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Users      *handlers.UsersHandler
	Products   *handlers.ProductsHandler
	Cart       *handlers.CartHandler
	Orders     *handlers.OrdersHandler
	Blogs      *handlers.BlogsHandler
	Newsletter *handlers.NewsletterHandler
	Admin      *handlers.AdminHandler
	Verifier   *auth.Verifier
	Metrics    http.Handler
}

// RegisterRoutes wires HTTP routes. Protected routes run the session
// verifier, then the role gate, then the handler.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	member := guard(cfg.Verifier, auth.AnyAccount)
	admin := guard(cfg.Verifier, auth.AdminOnly)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", member(cfg.Auth.Me)...)
	authGroup.Put("/profile", member(cfg.Auth.UpdateProfile)...)
	authGroup.Put("/password", member(cfg.Auth.ChangePassword)...)

	api.Get("/users", admin(cfg.Users.List)...)
	api.Put("/users/:id/role", admin(cfg.Users.UpdateRole)...)

	products := api.Group("/products")
	products.Get("/", cfg.Products.List)
	products.Post("/", admin(cfg.Products.Create)...)
	products.Get("/:id", cfg.Products.Get)
	products.Put("/:id", admin(cfg.Products.Update)...)
	products.Delete("/:id", admin(cfg.Products.Delete)...)
	products.Get("/:id/likes", cfg.Products.Likes)
	products.Post("/:id/like", member(cfg.Products.Like)...)
	products.Delete("/:id/like", member(cfg.Products.Unlike)...)
	products.Get("/:id/comments", cfg.Products.Comments)
	products.Post("/:id/comments", member(cfg.Products.AddComment)...)
	products.Get("/:id/reviews", cfg.Products.Reviews)
	products.Post("/:id/reviews", member(cfg.Products.AddReview)...)

	api.Get("/likes/me", member(cfg.Products.MyLikes)...)
	api.Delete("/comments/:id", member(cfg.Products.DeleteComment)...)
	api.Get("/reviews", admin(cfg.Products.AllReviews)...)
	api.Delete("/reviews/:id", admin(cfg.Products.DeleteReview)...)

	api.Get("/cart", member(cfg.Cart.Get)...)
	api.Post("/cart/items", member(cfg.Cart.AddItem)...)
	api.Put("/cart/items/:productId", member(cfg.Cart.UpdateItem)...)
	api.Delete("/cart/items/:productId", member(cfg.Cart.RemoveItem)...)
	api.Delete("/cart", member(cfg.Cart.Clear)...)

	api.Get("/wishlist", member(cfg.Cart.Wishlist)...)
	api.Post("/wishlist/:productId", member(cfg.Cart.AddToWishlist)...)
	api.Delete("/wishlist/:productId", member(cfg.Cart.RemoveFromWishlist)...)

	orders := api.Group("/orders")
	orders.Post("/", member(cfg.Orders.Checkout)...)
	orders.Get("/", admin(cfg.Orders.List)...)
	orders.Get("/me", member(cfg.Orders.Mine)...)
	orders.Get("/:id", member(cfg.Orders.Get)...)
	orders.Post("/:id/cancel", member(cfg.Orders.Cancel)...)
	orders.Put("/:id/status", admin(cfg.Orders.UpdateStatus)...)

	blogs := api.Group("/blogs")
	blogs.Get("/", cfg.Blogs.List)
	blogs.Post("/", admin(cfg.Blogs.Create)...)
	blogs.Get("/:id", cfg.Blogs.Get)
	blogs.Put("/:id", admin(cfg.Blogs.Update)...)
	blogs.Delete("/:id", admin(cfg.Blogs.Delete)...)

	newsletter := api.Group("/newsletter")
	newsletter.Post("/subscribe", cfg.Newsletter.Subscribe)
	newsletter.Post("/unsubscribe", cfg.Newsletter.Unsubscribe)
	newsletter.Get("/", admin(cfg.Newsletter.List)...)

	api.Post("/admin/cache/flush", admin(cfg.Admin.FlushCache)...)
}

// guard prefixes a handler with session verification and a role gate.
func guard(verifier *auth.Verifier, allowed auth.RoleSet) func(fiber.Handler) []fiber.Handler {
	return func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{verifier.Handle, auth.RequireRoles(allowed), h}
	}
}
