package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vibecommerce/internal/domain"
)

// SessionRepo keeps bearer sessions in the sessions table.
type SessionRepo struct {
	db  *sqlx.DB
	ttl time.Duration
}

func NewSessionRepo(db *sqlx.DB, ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionRepo{db: db, ttl: ttl}
}

func (r *SessionRepo) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO sessions(token, user_id, created_at, expires_at)
		VALUES(?, ?, ?, ?)
	`), token, userID, now.Format(domain.TimeLayout), now.Add(r.ttl).Format(domain.TimeLayout))
	if err != nil {
		return "", err
	}
	return token, nil
}

// Lookup returns the user id behind token, or domain.ErrUnauthorized when
// the token is unknown or expired.
func (r *SessionRepo) Lookup(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.db.GetContext(ctx, &userID, r.db.Rebind(`
		SELECT user_id FROM sessions WHERE token = ? AND expires_at > ?
	`), token, domain.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.Unauthorized("Invalid or expired session")
	}
	return userID, err
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE token = ?`), token)
	return err
}

func (r *SessionRepo) DeleteForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE user_id = ?`), userID)
	return err
}

// Purge drops expired rows.
func (r *SessionRepo) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`), domain.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
