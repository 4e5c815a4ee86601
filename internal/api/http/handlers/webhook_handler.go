package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quickstop/cafebot/internal/service"
)

// WebhookHandler receives inbound messages from the WhatsApp provider.
type WebhookHandler struct {
	intake *service.IntakeService
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(intake *service.IntakeService) *WebhookHandler {
	return &WebhookHandler{intake: intake}
}

// Receive POST /webhook. Always answers 200: a non-success status makes
// the provider redeliver the same message indefinitely.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	h.intake.HandleInbound(c.UserContext(), c.Body())
	return c.SendStatus(fiber.StatusOK)
}

// Root GET /. Static liveness string.
func (h *WebhookHandler) Root(c *fiber.Ctx) error {
	return c.SendString("QuickStop Cyber Cafe bot running.")
}
