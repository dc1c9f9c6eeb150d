package repos

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"vibecommerce/internal/domain"
)

//go:embed seed/catalog.yaml
var catalogYAML []byte

// OpenDB connects to driver ("sqlite" or "postgres") and applies the schema.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = "sqlite"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// One connection: ":memory:" databases are per connection, and
		// sqlite serializes writers anyway.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return db, nil
}

// NewID returns a 24-hex document id.
func NewID() string { return primitive.NewObjectID().Hex() }

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price BIGINT NOT NULL CHECK (price >= 0),
  image TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  category TEXT NOT NULL DEFAULT '',
  shipping_cost BIGINT NOT NULL DEFAULT 0,
  tax_rate {{real}} NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Cart lines (one row per add; never merged)
CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  user_id TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cart_items_user_product ON cart_items(user_id, product_id);

-- Orders (items is a JSON snapshot of the priced cart)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  user_email TEXT NOT NULL,
  user_name TEXT NOT NULL,
  items TEXT NOT NULL,
  subtotal BIGINT NOT NULL DEFAULT 0,
  shipping BIGINT NOT NULL DEFAULT 0,
  tax {{real}} NOT NULL DEFAULT 0,
  total {{real}} NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','processing','shipped','delivered','cancelled')),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  token TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT NOT NULL,
  expires_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	floatType := "REAL"
	if db.DriverName() == "postgres" {
		floatType = "DOUBLE PRECISION"
	} else {
		schema = "PRAGMA foreign_keys = ON;\n" + schema
	}
	_, err := db.Exec(strings.ReplaceAll(schema, "{{real}}", floatType))
	return err
}

type seedFile struct {
	Products []struct {
		Name         string  `yaml:"name"`
		Price        int64   `yaml:"price"`
		Image        string  `yaml:"image"`
		Stock        int     `yaml:"stock"`
		Category     string  `yaml:"category"`
		ShippingCost int64   `yaml:"shippingCost"`
		TaxRate      float64 `yaml:"taxRate"`
	} `yaml:"products"`
	Users []struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"users"`
}

// Seed inserts the demo catalog when the products table is empty and makes
// sure the demo users exist. Safe to run on every start.
func Seed(ctx context.Context, db *sqlx.DB, bcryptCost int) error {
	var sf seedFile
	if err := yaml.Unmarshal(catalogYAML, &sf); err != nil {
		return fmt.Errorf("seed file: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n == 0 {
		log.Printf("[seed] inserting %d demo products", len(sf.Products))
		for _, p := range sf.Products {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO products(id,name,price,image,stock,category,shipping_cost,tax_rate,created_at)
				VALUES(?,?,?,?,?,?,?,?,?)
			`), NewID(), p.Name, p.Price, p.Image, p.Stock, p.Category, p.ShippingCost, p.TaxRate, domain.Now()); err != nil {
				return err
			}
		}
	}

	for _, u := range sf.Users {
		h, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO users(id,name,email,password_hash,created_at)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`), NewID(), u.Name, strings.ToLower(u.Email), string(h), domain.Now()); err != nil {
			return err
		}
	}

	return tx.Commit()
}
