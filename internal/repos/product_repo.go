package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"vibecommerce/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, price, image, stock, category, shipping_cost, tax_rate, created_at`

// ProductFilter narrows List. Zero value lists everything in insertion order.
type ProductFilter struct {
	Query    string // case-insensitive name substring
	Category string
	Sort     string // price_asc | price_desc | name
}

func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if f.Query != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Query)+"%")
	}
	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	order := `created_at, id`
	switch f.Sort {
	case "price_asc":
		order = `price ASC, id`
	case "price_desc":
		order = `price DESC, id`
	case "name":
		order = `LOWER(name), id`
	}

	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY `+order), args...)
	return out, err
}

// Get returns domain.ErrNotFound when no product has id.
func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT `+productCols+` FROM products WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NotFound("Product not found")
	}
	return p, err
}

func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT DISTINCT category FROM products
	  WHERE category <> ''
	  ORDER BY category`)
	return out, err
}
