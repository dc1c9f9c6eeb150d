package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/pricing"
)

// ReceiptTimeLayout matches a JavaScript Date.toISOString value.
const ReceiptTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// CheckoutService prices a client-held cart into a mock receipt. No payment
// is taken and nothing is stored.
type CheckoutService struct {
	Tracer   trace.Tracer
	receipts metric.Int64Counter
	now      func() time.Time
}

func NewCheckoutService() *CheckoutService {
	s := &CheckoutService{Tracer: tracer(), now: time.Now}
	s.bindMeter(meter())
	return s
}

// WithMeterProvider records the service counters through mp instead of the
// global provider.
func (s *CheckoutService) WithMeterProvider(mp metric.MeterProvider) *CheckoutService {
	s.bindMeter(mp.Meter(instrumentation))
	return s
}

func (s *CheckoutService) bindMeter(m metric.Meter) {
	s.receipts = counter(m, "checkout.receipts", "Receipts produced by checkout")
}

// Process validates the request and prices the items. The raw items are
// echoed into the receipt unchanged.
func (s *CheckoutService) Process(ctx context.Context, rawItems json.RawMessage, customer *domain.CustomerInfo) (domain.Receipt, error) {
	ctx, span := s.Tracer.Start(ctx, "checkout.process")
	defer span.End()

	lines, err := pricing.ParseCheckoutItems(rawItems)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.Receipt{}, err
	}
	if customer == nil || strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Email) == "" {
		err := domain.Validation("Customer name and email are required")
		span.SetStatus(codes.Error, err.Error())
		return domain.Receipt{}, err
	}

	sum := pricing.Compute(pricing.Items(lines))
	span.SetAttributes(
		attribute.Int("checkout.lines", len(lines)),
		attribute.Int64("checkout.subtotal", sum.Subtotal),
		attribute.Float64("checkout.total", sum.Total),
	)
	s.receipts.Add(ctx, 1)

	return domain.Receipt{
		Subtotal:     sum.Subtotal,
		Shipping:     sum.Shipping,
		Tax:          sum.Tax,
		Total:        sum.Total,
		Timestamp:    s.now().UTC().Format(ReceiptTimeLayout),
		Items:        rawItems,
		CustomerInfo: *customer,
	}, nil
}
