package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/register", cfg.Accounts.Register)
	app.Post("/login", cfg.Accounts.Login)
	app.Post("/send-reset-password-email", cfg.Accounts.SendResetPasswordEmail)
	app.Post("/reset-password/:uid/:token", cfg.Accounts.ResetPassword)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/profile", cfg.Accounts.Profile)
	protected.Post("/changepassword", cfg.Accounts.ChangePassword)
}
