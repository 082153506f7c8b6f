package handler

import (
	"errors"

	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	checkout *usecase.CheckoutUsecase
}

func NewWebhookHandler(checkout *usecase.CheckoutUsecase) *WebhookHandler {
	return &WebhookHandler{checkout: checkout}
}

// Stripe answers 2xx for every verified event, including duplicates, so the
// provider stops retrying. Processing failures return 500 to get a retry.
func (h *WebhookHandler) Stripe(c *fiber.Ctx) error {
	result, err := h.checkout.HandleWebhook(c.UserContext(), c.Body(), c.Get("Stripe-Signature"))
	if errors.Is(err, usecase.ErrInvalidSignature) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process event"})
	}
	return c.JSON(fiber.Map{"received": true, "result": result})
}
