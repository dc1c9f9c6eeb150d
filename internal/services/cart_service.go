package services

import (
	"context"
	"strings"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/pricing"
	"vibecommerce/internal/repos"
	"vibecommerce/internal/validate"
)

// GuestUserID owns every cart and order that arrives without a user.
const GuestUserID = "mock_user_1"

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add appends a new line. Adding a product that is already in the cart
// creates a second line; lines are never merged.
func (s *CartService) Add(ctx context.Context, productID string, qty int, userID string) (domain.CartItem, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" || qty == 0 {
		return domain.CartItem{}, domain.Validation("Product ID and quantity are required")
	}
	if qty < 1 {
		return domain.CartItem{}, domain.Validation("Quantity must be at least 1")
	}
	if _, ok := validate.ID(productID); !ok {
		return domain.CartItem{}, domain.NotFound("Product not found")
	}
	if _, err := s.Prods.Get(ctx, productID); err != nil {
		return domain.CartItem{}, domain.Wrap(err, "Failed to add item to cart")
	}
	if userID == "" {
		userID = GuestUserID
	}

	it := domain.CartItem{
		ID:        repos.NewID(),
		ProductID: productID,
		Qty:       qty,
		UserID:    userID,
		CreatedAt: domain.Now(),
	}
	if err := s.Carts.Insert(ctx, it); err != nil {
		return domain.CartItem{}, domain.Wrap(err, "Failed to add item to cart")
	}
	out, err := s.Carts.Get(ctx, it.ID)
	if err != nil {
		return domain.CartItem{}, domain.Wrap(err, "Failed to add item to cart")
	}
	return out, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, id string, qty int) (domain.CartItem, error) {
	if qty < 1 {
		return domain.CartItem{}, domain.Validation("Quantity must be at least 1")
	}
	if _, ok := validate.ID(id); !ok {
		return domain.CartItem{}, domain.NotFound("Cart item not found")
	}
	it, err := s.Carts.UpdateQty(ctx, id, qty)
	if err != nil {
		return domain.CartItem{}, domain.Wrap(err, "Failed to update cart quantity")
	}
	return it, nil
}

func (s *CartService) Remove(ctx context.Context, id string) error {
	if _, ok := validate.ID(id); !ok {
		return domain.NotFound("Cart item not found")
	}
	return domain.Wrap(s.Carts.Delete(ctx, id), "Failed to remove item from cart")
}

// CartView is the listing payload. Total is price x qty only; Summary adds
// shipping and tax.
type CartView struct {
	Items   []domain.CartItem `json:"items"`
	Total   int64             `json:"total"`
	Summary pricing.Summary   `json:"summary"`
}

func (s *CartService) List(ctx context.Context, userID string) (CartView, error) {
	if userID == "" {
		userID = GuestUserID
	}
	items, err := s.Carts.ListByUser(ctx, userID)
	if err != nil {
		return CartView{}, domain.Wrap(err, "Failed to fetch cart")
	}
	lines := pricing.FromCart(items)
	return CartView{
		Items:   items,
		Total:   pricing.Subtotal(lines),
		Summary: pricing.Compute(lines),
	}, nil
}
