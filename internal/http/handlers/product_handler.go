package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.List(c.UserContext(), services.Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		return err
	}
	return ok(c, ps)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	p, err := h.Catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, p)
}
