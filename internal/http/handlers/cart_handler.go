package handlers

import (
	"math"

	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/domain"
	applog "vibecommerce/internal/log"
	"vibecommerce/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

type addToCartRequest struct {
	ProductID string   `json:"productId"`
	Qty       *float64 `json:"qty"`
	UserID    string   `json:"userId"`
}

type updateQtyRequest struct {
	Qty *float64 `json:"qty"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	qty, err := wholeQty(req.Qty)
	if err != nil {
		return err
	}
	it, err := h.Cart.Add(c.UserContext(), req.ProductID, qty, userID(c, req.UserID))
	if err != nil {
		return err
	}
	applog.Info(c, "cart.add", map[string]any{"item_id": it.ID, "product_id": req.ProductID, "qty": qty})
	return created(c, it)
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.List(c.UserContext(), userID(c, c.Query("userId")))
	if err != nil {
		return err
	}
	return ok(c, cv)
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	var req updateQtyRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	qty, err := wholeQty(req.Qty)
	if err != nil {
		return err
	}
	it, err := h.Cart.UpdateQuantity(c.UserContext(), c.Params("id"), qty)
	if err != nil {
		return err
	}
	return ok(c, it)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	if err := h.Cart.Remove(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	applog.Info(c, "cart.remove", map[string]any{"item_id": c.Params("id")})
	return message(c, "Item removed from cart")
}

// wholeQty maps an absent quantity to 0 and rejects fractions.
func wholeQty(v *float64) (int, error) {
	if v == nil {
		return 0, nil
	}
	q := *v
	if math.IsNaN(q) || math.IsInf(q, 0) || q != math.Trunc(q) || math.Abs(q) > math.MaxInt32 {
		return 0, domain.Validation("Quantity must be at least 1")
	}
	return int(q), nil
}
