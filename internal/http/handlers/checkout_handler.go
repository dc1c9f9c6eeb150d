package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/domain"
	applog "vibecommerce/internal/log"
	"vibecommerce/internal/services"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

type checkoutRequest struct {
	CartItems    json.RawMessage      `json:"cartItems"`
	CustomerInfo *domain.CustomerInfo `json:"customerInfo"`
}

// Process answers with {success, receipt}. Recording the order is a
// separate call.
func (h *CheckoutHandler) Process(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	r, err := h.Checkout.Process(c.UserContext(), req.CartItems, req.CustomerInfo)
	if err != nil {
		return err
	}
	applog.Audit(c, "checkout.receipt", map[string]any{"total": r.Total, "email": r.CustomerInfo.Email})
	return c.JSON(fiber.Map{"success": true, "receipt": r})
}
