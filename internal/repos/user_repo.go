package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"vibecommerce/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, name, email, password_hash, created_at`

// ByEmail matches case-insensitively. Unknown emails yield domain.ErrNotFound.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE LOWER(email) = LOWER(?)`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u. A taken email is reported as a validation error.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		INSERT INTO users(id, name, email, password_hash, created_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`), u.ID, u.Name, u.Email, u.Hash, u.CreatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Validation("User with this email already exists")
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE users SET password_hash = ? WHERE id = ?`), hash, id)
	return err
}
