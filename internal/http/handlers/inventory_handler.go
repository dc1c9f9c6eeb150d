package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/services"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// Check reports display-only availability for one product.
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	a, err := h.Inv.CheckAvailability(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, a)
}
