package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// TokenRepo implements TokenRepository using PostgreSQL.
type TokenRepo struct{ db *DB }

// NewTokenRepo constructs a session token repository.
func NewTokenRepo(db *DB) *TokenRepo { return &TokenRepo{db: db} }

// Put upserts the profile row; the primary key keeps one credential per profile.
func (r *TokenRepo) Put(ctx context.Context, profileID uuid.UUID, tok model.SessionToken) error {
	const q = `
INSERT INTO customer_sessions (profile_id, name, access_token, expires_at, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (profile_id)
DO UPDATE SET access_token = EXCLUDED.access_token, expires_at = EXCLUDED.expires_at, updated_at = now()`
	var exp *time.Time
	if !tok.ExpiresAt.IsZero() {
		e := tok.ExpiresAt.UTC()
		exp = &e
	}
	_, err := r.db.Pool.Exec(ctx, q, profileID, model.SessionTokenName, tok.Value, exp)
	return err
}

// Get selects the profile row.
func (r *TokenRepo) Get(ctx context.Context, profileID uuid.UUID) (model.SessionToken, error) {
	const q = `
SELECT access_token, expires_at
FROM customer_sessions WHERE profile_id=$1`
	var (
		value string
		exp   *time.Time
	)
	if err := r.db.Pool.QueryRow(ctx, q, profileID).Scan(&value, &exp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SessionToken{}, errs.ErrNotFound
		}
		return model.SessionToken{}, err
	}
	tok := model.SessionToken{Value: value}
	if exp != nil {
		tok.ExpiresAt = *exp
	}
	return tok, nil
}
