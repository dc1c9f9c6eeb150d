// Package pricing holds the one formula every checkout path prices a cart
// with. Money is kept in cents; tax is the only fractional component.
package pricing

import "vibecommerce/internal/domain"

type LineItem struct {
	Price        int64   // cents
	ShippingCost int64   // cents per unit
	TaxRate      float64 // percent
	Qty          int
}

type Summary struct {
	Subtotal int64   `json:"subtotal"`
	Shipping int64   `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Compute prices items. total always equals subtotal + shipping + tax.
func Compute(items []LineItem) Summary {
	var s Summary
	for _, it := range items {
		qty := int64(it.Qty)
		itemSubtotal := it.Price * qty
		s.Subtotal += itemSubtotal
		s.Shipping += it.ShippingCost * qty
		s.Tax += float64(itemSubtotal) * it.TaxRate / 100
	}
	s.Total = float64(s.Subtotal+s.Shipping) + s.Tax
	return s
}

// Subtotal is the cart listing total: price x qty only.
func Subtotal(items []LineItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Price * int64(it.Qty)
	}
	return sum
}

// FromCart maps stored cart lines to line items. Lines whose product is
// missing contribute nothing but their quantity.
func FromCart(items []domain.CartItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		li := LineItem{Qty: it.Qty}
		if p := it.Product; p != nil {
			li.Price = p.Price
			li.ShippingCost = p.ShippingCost
			li.TaxRate = p.TaxRate
		}
		out = append(out, li)
	}
	return out
}
