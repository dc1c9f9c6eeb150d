package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"vibecommerce/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID        string  `db:"id"`
	UserID    string  `db:"user_id"`
	UserEmail string  `db:"user_email"`
	UserName  string  `db:"user_name"`
	Items     string  `db:"items"`
	Subtotal  int64   `db:"subtotal"`
	Shipping  int64   `db:"shipping"`
	Tax       float64 `db:"tax"`
	Total     float64 `db:"total"`
	Status    string  `db:"status"`
	CreatedAt string  `db:"created_at"`
}

func (o orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:        o.ID,
		UserID:    o.UserID,
		UserEmail: o.UserEmail,
		UserName:  o.UserName,
		Items:     json.RawMessage(o.Items),
		Subtotal:  o.Subtotal,
		Shipping:  o.Shipping,
		Tax:       o.Tax,
		Total:     o.Total,
		Status:    domain.OrderStatus(o.Status),
		OrderDate: o.CreatedAt,
	}
}

const orderCols = `id, user_id, user_email, user_name, items, subtotal, shipping, tax, total, status, created_at`

const insertOrder = `
  INSERT INTO orders (` + orderCols + `)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Create inserts o as is; the caller assigns ID, Status and OrderDate.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return insertOrderWith(ctx, r.db, r.db.Rebind(insertOrder), o)
}

func insertOrderWith(ctx context.Context, ex sqlx.ExecerContext, query string, o *domain.Order) error {
	_, err := ex.ExecContext(ctx, query,
		o.ID, o.UserID, o.UserEmail, o.UserName, string(o.Items),
		o.Subtotal, o.Shipping, o.Tax, o.Total, string(o.Status), o.OrderDate)
	return err
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+orderCols+` FROM orders WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NotFound("Order not found")
	}
	if err != nil {
		return domain.Order{}, err
	}
	return row.toDomain(), nil
}

// ListByUser returns the user's orders, most recent first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT `+orderCols+`
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`), userID); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE orders SET status = ? WHERE id = ?`), string(status), id)
	if err != nil {
		return domain.Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Order{}, domain.NotFound("Order not found")
	}
	return r.Get(ctx, id)
}

// PlaceFromCart turns the user's cart into an order in one transaction:
// the cart lines are read, build prices them into an order, the order is
// inserted and the lines are deleted. Any error rolls everything back.
func (r *OrderRepo) PlaceFromCart(ctx context.Context, userID string, build func([]domain.CartItem) (*domain.Order, error)) (*domain.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	lines, err := listCart(ctx, tx, tx.Rebind(cartByUser), userID)
	if err != nil {
		return nil, err
	}
	o, err := build(lines)
	if err != nil {
		return nil, err
	}
	if err := insertOrderWith(ctx, tx, tx.Rebind(insertOrder), o); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	if len(ids) > 0 {
		query, args, err := sqlx.In(`DELETE FROM cart_items WHERE id IN (?)`, ids)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}
