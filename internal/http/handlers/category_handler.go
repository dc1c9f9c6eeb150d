package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, cats)
}
