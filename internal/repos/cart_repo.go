package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"vibecommerce/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// cartSelect populates CartItem.Product through sqlx's dotted column names.
const cartSelect = `
  SELECT ci.id, ci.product_id, ci.qty, ci.user_id, ci.created_at,
         p.id            AS "product.id",
         p.name          AS "product.name",
         p.price         AS "product.price",
         p.image         AS "product.image",
         p.stock         AS "product.stock",
         p.category      AS "product.category",
         p.shipping_cost AS "product.shipping_cost",
         p.tax_rate      AS "product.tax_rate",
         p.created_at    AS "product.created_at"
  FROM cart_items ci
  JOIN products p ON p.id = ci.product_id
`

func (r *CartRepo) Insert(ctx context.Context, it domain.CartItem) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO cart_items(id, product_id, qty, user_id, created_at)
		VALUES(?, ?, ?, ?, ?)
	`), it.ID, it.ProductID, it.Qty, it.UserID, it.CreatedAt)
	return err
}

func (r *CartRepo) Get(ctx context.Context, id string) (domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.GetContext(ctx, &it, r.db.Rebind(cartSelect+` WHERE ci.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CartItem{}, domain.NotFound("Cart item not found")
	}
	return it, err
}

func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return listCart(ctx, r.db, r.db.Rebind(cartByUser), userID)
}

const cartByUser = cartSelect + ` WHERE ci.user_id = ? ORDER BY ci.created_at, ci.id`

func listCart(ctx context.Context, q sqlx.QueryerContext, query, userID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	if err := sqlx.SelectContext(ctx, q, &out, query, userID); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateQty sets qty and returns the refreshed line.
func (r *CartRepo) UpdateQty(ctx context.Context, id string, qty int) (domain.CartItem, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE cart_items SET qty = ? WHERE id = ?`), qty, id)
	if err != nil {
		return domain.CartItem{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.CartItem{}, domain.NotFound("Cart item not found")
	}
	return r.Get(ctx, id)
}

func (r *CartRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM cart_items WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("Cart item not found")
	}
	return nil
}
