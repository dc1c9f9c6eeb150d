package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/domain"
	applog "vibecommerce/internal/log"
	"vibecommerce/internal/pricing"
	"vibecommerce/internal/services"
)

// ReceiptHandler renders a stored order as a printable HTML receipt.
type ReceiptHandler struct {
	Order *services.OrderService
}

type receiptLine struct {
	Name      string
	Qty       int
	Price     int64
	LineTotal int64
}

func (h *ReceiptHandler) Show(c *fiber.Ctx) error {
	o, err := h.Order.Get(c.UserContext(), c.Params("orderId"))
	if err != nil {
		status, msg := Classify(err)
		if status >= fiber.StatusInternalServerError {
			applog.Error(c, "receipt.load", err, nil)
		}
		return c.Status(status).Render("error", fiber.Map{"Message": msg})
	}

	var lines []receiptLine
	if parsed, err := pricing.ParseCheckoutItems(o.Items); err == nil {
		for _, l := range parsed {
			lines = append(lines, receiptLine{
				Name:      l.Name,
				Qty:       l.Qty,
				Price:     l.Price,
				LineTotal: l.Price * int64(l.Qty),
			})
		}
	}
	return c.Render("receipt", fiber.Map{
		"Order":   o,
		"Lines":   lines,
		"Pending": o.Status == domain.OrderPending,
	})
}
