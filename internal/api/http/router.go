package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storefront-labs/storefront/internal/api/http/handlers"
	"github.com/storefront-labs/storefront/internal/auth"
	"github.com/storefront-labs/storefront/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	BasePath       string
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Catalog        *handlers.CatalogHandler
	Buyer          *handlers.BuyerHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   *LoginLimiter
}

// RegisterRoutes wires the development API routes under BasePath.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	base := cfg.BasePath
	if base == "/" {
		base = ""
	}
	api := app.Group(base)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.LoginLimiter.Handle, cfg.Users.Register)
	authGroup.Post("/login", cfg.LoginLimiter.Handle, cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.HandleToken, cfg.Users.Me)
	authGroup.Delete("/me", cfg.AuthMiddleware.Handle, cfg.Users.DeleteMe)

	api.Get("/products", cfg.Catalog.ListProducts)
	api.Get("/products/:id", cfg.Catalog.GetProduct)
	api.Get("/categories", cfg.Catalog.ListCategories)

	signedIn := api.Group("", cfg.AuthMiddleware.Handle)
	signedIn.Post("/products", auth.RequireRole(domain.RoleSeller, domain.RoleAdmin), cfg.Catalog.CreateProduct)
	signedIn.Post("/categories", auth.RequireRole(domain.RoleAdmin), cfg.Catalog.CreateCategory)

	buyer := auth.RequireRole(domain.RoleBuyer)
	signedIn.Get("/cart", buyer, cfg.Buyer.GetCart)
	signedIn.Post("/cart/items", buyer, cfg.Buyer.AddCartItem)
	signedIn.Get("/orders", buyer, cfg.Buyer.ListOrders)
	signedIn.Post("/orders", buyer, cfg.Buyer.PlaceOrder)
	signedIn.Get("/addresses", buyer, cfg.Buyer.ListAddresses)
	signedIn.Post("/addresses", buyer, cfg.Buyer.CreateAddress)
}
