package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Seed(context.Background(), db, bcrypt.MinCost))
	return db
}

func productByName(t *testing.T, db *sqlx.DB, name string) domain.Product {
	t.Helper()
	ps, err := repos.NewProductRepo(db).List(context.Background(), repos.ProductFilter{Query: name})
	require.NoError(t, err)
	require.NotEmpty(t, ps, "no product named %q", name)
	return ps[0]
}
