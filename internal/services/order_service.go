package services

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/pricing"
	"vibecommerce/internal/repos"
	"vibecommerce/internal/validate"
)

type OrderService struct {
	Orders  *repos.OrderRepo
	Tracer  trace.Tracer
	created metric.Int64Counter
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	s := &OrderService{Orders: orders, Tracer: tracer()}
	s.bindMeter(meter())
	return s
}

// WithMeterProvider records the service counters through mp instead of the
// global provider.
func (s *OrderService) WithMeterProvider(mp metric.MeterProvider) *OrderService {
	s.bindMeter(mp.Meter(instrumentation))
	return s
}

func (s *OrderService) bindMeter(m metric.Meter) {
	s.created = counter(m, "orders.created", "Orders recorded")
}

// OrderInput is a receipt the client asks to record. Amounts are taken as
// given; only shipping and tax default to zero.
type OrderInput struct {
	UserID    string          `json:"userId"`
	UserEmail string          `json:"userEmail"`
	UserName  string          `json:"userName"`
	Items     json.RawMessage `json:"items"`
	Subtotal  *float64        `json:"subtotal"`
	Shipping  *float64        `json:"shipping"`
	Tax       *float64        `json:"tax"`
	Total     *float64        `json:"total"`
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "orders.create")
	defer span.End()

	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.UserEmail) == "" ||
		strings.TrimSpace(in.UserName) == "" || !nonEmptyArray(in.Items) {
		err := domain.Validation("Missing required order information")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for _, v := range []*float64{in.Subtotal, in.Shipping, in.Tax, in.Total} {
		if math.Abs(num(v)) > pricing.MaxAmount {
			err := domain.Validation("Order amounts are out of range")
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	o := &domain.Order{
		ID:        repos.NewID(),
		UserID:    in.UserID,
		UserEmail: in.UserEmail,
		UserName:  in.UserName,
		Items:     in.Items,
		Subtotal:  int64(math.Round(num(in.Subtotal))),
		Shipping:  int64(math.Round(num(in.Shipping))),
		Tax:       num(in.Tax),
		Status:    domain.OrderPending,
		OrderDate: domain.Now(),
	}
	if in.Total != nil {
		o.Total = num(in.Total)
	} else {
		o.Total = float64(o.Subtotal+o.Shipping) + o.Tax
	}

	if err := s.Orders.Create(ctx, o); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, domain.Wrap(err, "Failed to create order")
	}
	span.SetAttributes(attribute.String("order.id", o.ID))
	s.created.Add(ctx, 1, metric.WithAttributes(attribute.String("source", "receipt")))
	return o, nil
}

// PlaceFromCart prices the user's stored cart and records it as an order,
// emptying the cart, all in one transaction.
func (s *OrderService) PlaceFromCart(ctx context.Context, userID string, customer domain.CustomerInfo) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "orders.place_from_cart")
	defer span.End()

	if userID == "" {
		userID = GuestUserID
	}
	name := strings.TrimSpace(customer.Name)
	email := strings.TrimSpace(customer.Email)
	if name == "" || email == "" {
		err := domain.Validation("Customer name and email are required")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	o, err := s.Orders.PlaceFromCart(ctx, userID, func(lines []domain.CartItem) (*domain.Order, error) {
		if len(lines) == 0 {
			return nil, domain.Validation("Cart is empty")
		}
		items, err := json.Marshal(lines)
		if err != nil {
			return nil, err
		}
		sum := pricing.Compute(pricing.FromCart(lines))
		return &domain.Order{
			ID:        repos.NewID(),
			UserID:    userID,
			UserEmail: email,
			UserName:  name,
			Items:     items,
			Subtotal:  sum.Subtotal,
			Shipping:  sum.Shipping,
			Tax:       sum.Tax,
			Total:     sum.Total,
			Status:    domain.OrderPending,
			OrderDate: domain.Now(),
		}, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Wrap(err, "Failed to create order")
	}
	span.SetAttributes(attribute.String("order.id", o.ID), attribute.Float64("order.total", o.Total))
	s.created.Add(ctx, 1, metric.WithAttributes(attribute.String("source", "cart")))
	return o, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.Validation("User ID is required")
	}
	out, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Wrap(err, "Failed to fetch orders")
	}
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	if _, ok := validate.ID(id); !ok {
		return domain.Order{}, domain.NotFound("Order not found")
	}
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, domain.Wrap(err, "Failed to fetch order")
	}
	return o, nil
}

// UpdateStatus moves an order to status on behalf of ownerID. Orders
// belonging to anyone else are reported as not found.
func (s *OrderService) UpdateStatus(ctx context.Context, id, ownerID, status string) (domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "orders.update_status")
	defer span.End()

	next := domain.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		err := domain.Validation("Invalid order status")
		span.SetStatus(codes.Error, err.Error())
		return domain.Order{}, err
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.Order{}, err
	}
	if ownerID == "" || o.UserID != ownerID {
		span.SetStatus(codes.Error, "not owner")
		return domain.Order{}, domain.NotFound("Order not found")
	}
	o, err = s.Orders.UpdateStatus(ctx, o.ID, next)
	if err != nil {
		return domain.Order{}, domain.Wrap(err, "Failed to update order")
	}
	span.SetAttributes(attribute.String("order.id", o.ID), attribute.String("order.status", string(o.Status)))
	return o, nil
}

func num(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

func nonEmptyArray(raw json.RawMessage) bool {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return false
	}
	return len(arr) > 0
}
