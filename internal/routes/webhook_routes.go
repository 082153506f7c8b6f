package routes

import (
	"zamar-backend/internal/handler"
	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// SetupWebhookRoutes takes no auth: the provider signature authenticates.
func SetupWebhookRoutes(app *fiber.App, checkout *usecase.CheckoutUsecase) {
	hdl := handler.NewWebhookHandler(checkout)
	app.Post("/api/webhooks/stripe", hdl.Stripe)
}
