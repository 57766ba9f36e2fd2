package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carenest/marketplace/internal/api/http/handlers"
	"github.com/carenest/marketplace/internal/auth"
	"github.com/carenest/marketplace/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Accounts       *handlers.AccountHandler
	Bookings       *handlers.BookingHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authenticated := cfg.AuthMiddleware.Handle

	authGroup := app.Group("/auth")
	authGroup.Post("/", cfg.Auth.SubmitPhone)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyOTP)
	authGroup.Get("/me", authenticated, cfg.Accounts.Me)
	authGroup.Post("/me", authenticated, cfg.Accounts.UpdateMe)
	authGroup.Get("/cards", authenticated, cfg.Accounts.ListCards)
	authGroup.Post("/cards", authenticated, auth.RequireRole(domain.RoleClient), cfg.Accounts.AddCard)
	authGroup.Put("/cards/:id", authenticated, auth.RequireRole(domain.RoleClient), cfg.Accounts.SetActiveCard)
	authGroup.Get("/banks", authenticated, cfg.Accounts.ListBanks)
	authGroup.Post("/banks", authenticated, auth.RequireRole(domain.RoleProvider), cfg.Accounts.AddBank)
	authGroup.Put("/banks/:id", authenticated, auth.RequireRole(domain.RoleProvider), cfg.Accounts.SetActiveBank)

	// Static segments are registered before /:id so they are not taken as ids.
	orders := app.Group("/orders", authenticated)
	orders.Get("/address", cfg.Bookings.AddressBook)
	orders.Get("/reviews", cfg.Bookings.ListReviews)
	orders.Post("/reviews", cfg.Bookings.SubmitReview)
	orders.Get("/providers", cfg.Accounts.SearchProviders)
	orders.Get("/", cfg.Bookings.List)
	orders.Post("/", cfg.Bookings.Create)
	orders.Get("/:id", cfg.Bookings.Get)
	orders.Put("/:id", cfg.Bookings.Update)
	orders.Get("/:id/history", cfg.Bookings.History)

	app.Post("/admin/login", cfg.Auth.AdminLogin)
	admin := app.Group("/admin", authenticated, auth.RequireAdmin())
	admin.Get("/categories", cfg.Catalog.List)
	admin.Post("/categories", cfg.Catalog.Create)
	admin.Put("/categories/:id", cfg.Catalog.Update)
	admin.Get("/orders", cfg.Bookings.ListAll)
	admin.Get("/orders/:id", cfg.Bookings.Get)
	admin.Get("/accounts", cfg.Accounts.ListAccounts)
	admin.Get("/accounts/:id", cfg.Accounts.GetAccount)
	admin.Put("/accounts/:id/suspend", cfg.Accounts.Suspend)
}
