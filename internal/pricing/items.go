package pricing

import (
	"bytes"
	"encoding/json"
	"math"

	"vibecommerce/internal/domain"
)

// Bounds on client-supplied checkout numbers. Amounts are cents; MaxAmount
// also caps the gross value of a whole cart so sums stay exact in int64.
const (
	MaxQty    = math.MaxInt32
	MaxAmount = 1 << 53
)

// Line is a checkout line as sent by the client, reduced to what pricing
// and the receipt page need.
type Line struct {
	LineItem
	ProductID string
	Name      string
}

// productRef is the client's "productId" field: either a bare id or the
// populated product document.
type productRef struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Price        *float64 `json:"price"`
	ShippingCost *float64 `json:"shippingCost"`
	TaxRate      *float64 `json:"taxRate"`
}

func (p *productRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &p.ID)
	}
	type plain productRef
	return json.Unmarshal(b, (*plain)(p))
}

type checkoutLine struct {
	Product productRef `json:"productId"`
	Name    string     `json:"name"`
	Price   *float64   `json:"price"`
	Qty     *float64   `json:"qty"`
}

// ParseCheckoutItems decodes the raw cartItems array of a checkout request.
// Missing prices, shipping costs and tax rates count as zero and a missing
// quantity counts as one.
func ParseCheckoutItems(raw json.RawMessage) ([]Line, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, domain.Validation("Cart items are required")
	}
	var in []checkoutLine
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, domain.Validation("Cart items are malformed")
	}
	if len(in) == 0 {
		return nil, domain.Validation("Cart items are required")
	}

	out := make([]Line, 0, len(in))
	var gross float64
	for _, it := range in {
		qty := 1
		if it.Qty != nil && *it.Qty != 0 {
			q := *it.Qty
			if q < 0 || q > MaxQty || q != math.Trunc(q) {
				return nil, domain.Validation("Quantity must be a positive whole number")
			}
			qty = int(q)
		}

		price, err := cents(it.Product.Price)
		if err == nil && price == 0 {
			price, err = cents(it.Price)
		}
		if err != nil {
			return nil, err
		}
		shipping, err := cents(it.Product.ShippingCost)
		if err != nil {
			return nil, err
		}
		gross += (math.Abs(float64(price)) + math.Abs(float64(shipping))) * float64(qty)
		if gross > MaxAmount {
			return nil, domain.Validation("Cart total is out of range")
		}
		name := it.Product.Name
		if name == "" {
			name = it.Name
		}
		rate := 0.0
		if it.Product.TaxRate != nil && isFinite(*it.Product.TaxRate) {
			rate = *it.Product.TaxRate
		}

		out = append(out, Line{
			LineItem: LineItem{
				Price:        price,
				ShippingCost: shipping,
				TaxRate:      rate,
				Qty:          qty,
			},
			ProductID: it.Product.ID,
			Name:      name,
		})
	}
	return out, nil
}

// Items drops the descriptive fields of lines.
func Items(lines []Line) []LineItem {
	out := make([]LineItem, len(lines))
	for i, l := range lines {
		out[i] = l.LineItem
	}
	return out
}

func cents(v *float64) (int64, error) {
	if v == nil || !isFinite(*v) {
		return 0, nil
	}
	if math.Abs(*v) > MaxAmount {
		return 0, domain.Validation("Price is out of range")
	}
	return int64(math.Round(*v)), nil
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
