package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatPrice renders an amount in cents as US dollars, e.g. 2499 -> "$24.99".
// Anything that is not a finite number renders as "$0.00".
func FormatPrice(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return "$0.00"
	}
	dollars := d.Div(hundred).Round(2)
	sign := ""
	if dollars.IsNegative() {
		sign = "-"
		dollars = dollars.Abs()
	}
	whole := dollars.Truncate(0)
	frac := dollars.Sub(whole).Mul(hundred).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(whole.IntPart()), frac)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return fromUint(uint64(n))
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return fromUint(n)
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case decimal.Decimal:
		return n, true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	}
	return decimal.Zero, false
}

func fromUint(u uint64) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strconv.FormatUint(u, 10))
	return d, err == nil
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}
