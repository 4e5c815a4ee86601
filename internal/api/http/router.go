package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quickstop/cafebot/internal/api/http/handlers"
	"github.com/quickstop/cafebot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Webhook          *handlers.WebhookHandler
	Admin            *handlers.AdminHandler
	Health           *handlers.HealthHandler
	SecretMiddleware *auth.SecretMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Webhook.Root)
	app.Post("/webhook", cfg.Webhook.Receive)
	app.Get("/health/live", cfg.Health.Live)

	protected := app.Group("", cfg.SecretMiddleware.Handle)
	protected.Get("/queue", cfg.Admin.ListQueue)
	protected.Post("/take", cfg.Admin.Take)
	protected.Post("/done", cfg.Admin.Done)
	protected.Post("/verify-payment", cfg.Admin.VerifyPayment)
	protected.Get("/metrics", cfg.Health.Metrics)
}
