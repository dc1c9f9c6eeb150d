package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/domain"
	applog "vibecommerce/internal/log"
	"vibecommerce/internal/services"
)

type OrderHandler struct {
	Order *services.OrderService
}

// Create records a receipt. Missing user fields are taken from the session.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in services.OrderInput
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	if u := currentUser(c); u != nil {
		if in.UserID == "" {
			in.UserID = u.ID
		}
		if in.UserEmail == "" {
			in.UserEmail = u.Email
		}
		if in.UserName == "" {
			in.UserName = u.Name
		}
	}
	o, err := h.Order.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "order.create", map[string]any{"order_id": o.ID, "total": o.Total})
	return created(c, o)
}

type placeOrderRequest struct {
	UserID       string               `json:"userId"`
	CustomerInfo *domain.CustomerInfo `json:"customerInfo"`
}

// Place turns the stored cart into an order in one step, pricing it on the
// server.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody()
		}
	}
	var who domain.CustomerInfo
	if req.CustomerInfo != nil {
		who = *req.CustomerInfo
	}
	if u := currentUser(c); u != nil {
		if who.Name == "" {
			who.Name = u.Name
		}
		if who.Email == "" {
			who.Email = u.Email
		}
	}
	uid := userID(c, req.UserID)
	o, err := h.Order.PlaceFromCart(c.UserContext(), uid, who)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"user": uid, "error": err.Error()})
		return err
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "total": o.Total})
	return created(c, o)
}

func (h *OrderHandler) ListForUser(c *fiber.Ctx) error {
	orders, err := h.Order.ListForUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return ok(c, orders)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.Order.Get(c.UserContext(), c.Params("orderId"))
	if err != nil {
		return err
	}
	return ok(c, o)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves one of the signed-in user's orders along pending ->
// processing -> shipped -> delivered, or to cancelled.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	id := c.Params("orderId")
	var owner string
	if u := currentUser(c); u != nil {
		owner = u.ID
	}
	o, err := h.Order.UpdateStatus(c.UserContext(), id, owner, req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			applog.Security(c, "order.status.denied", map[string]any{"order_id": id})
		}
		return err
	}
	applog.Audit(c, "order.status.update", map[string]any{"order_id": id, "status": o.Status})
	return ok(c, o)
}
