package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/storefront-labs/storefront/internal/api/http/handlers"
)

// RegisterRoutes wires the storefront pages. Shared middlewares are expected
// to be registered on app already.
func (s *Shell) RegisterRoutes(app *fiber.App, health *handlers.HealthHandler) {
	if health != nil {
		app.Get("/health/live", health.Live)
		app.Get("/health/ready", health.Ready)
	}
	app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	app.Use(s.navigation())

	app.Get("/session", s.sessionInfo)
	app.Get("/", s.guarded(publicPage, "", s.home)...)
	app.Get("/products", s.guarded(publicPage, "", s.products)...)
	app.Get("/products/:id", s.guarded(publicPage, "", s.product)...)

	app.Get(s.paths.Login, s.guarded(guestPage, "", s.loginForm)...)
	app.Post(s.paths.Login, s.guarded(guestPage, "", s.login)...)
	app.Post("/register", s.guarded(guestPage, "", s.register)...)
	app.Post("/logout", s.logout)

	app.Get("/cart", s.guarded(buyerPage, "", s.cart)...)
	app.Post("/cart/items", s.guarded(buyerPage, "", s.addToCart)...)
	app.Get("/orders", s.guarded(buyerPage, "", s.orders)...)
	app.Post("/orders", s.guarded(buyerPage, "", s.placeOrder)...)
	app.Get("/addresses", s.guarded(buyerPage, "", s.addresses)...)
	app.Post("/addresses", s.guarded(buyerPage, "", s.createAddress)...)

	app.Get(s.paths.Admin, s.guarded(staffPage, "", s.dashboard)...)
	app.Get(s.paths.Admin+"/products", s.guarded(staffPage, "", s.adminProducts)...)
	app.Post(s.paths.Admin+"/products", s.guarded(staffPage, "", s.createProduct)...)
	app.Get(s.paths.Admin+"/categories", s.guarded(adminPage, s.paths.Admin, s.categories)...)
	app.Post(s.paths.Admin+"/categories", s.guarded(adminPage, s.paths.Admin, s.createCategory)...)
}
