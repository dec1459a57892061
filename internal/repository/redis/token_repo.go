// Package redis contains a Redis implementation of the token repository.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/model"
	"github.com/gofrs/uuid/v5"
	goredis "github.com/redis/go-redis/v9"
)

type record struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TokenRepo stores one credential per profile under customerAccessToken:<profile>.
// Redis TTL mirrors the credential expiry; an expired write removes the key.
type TokenRepo struct {
	rdb goredis.UniversalClient
	now func() time.Time
}

// NewTokenRepo constructs a Redis-backed token repository.
func NewTokenRepo(rdb goredis.UniversalClient) *TokenRepo {
	return &TokenRepo{rdb: rdb, now: time.Now}
}

func key(profileID uuid.UUID) string {
	return model.SessionTokenName + ":" + profileID.String()
}

// Put writes the credential with a matching TTL.
func (r *TokenRepo) Put(ctx context.Context, profileID uuid.UUID, tok model.SessionToken) error {
	var ttl time.Duration
	if !tok.ExpiresAt.IsZero() {
		ttl = tok.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.rdb.Del(ctx, key(profileID)).Err()
		}
	}
	b, err := json.Marshal(record{AccessToken: tok.Value, ExpiresAt: tok.ExpiresAt})
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(profileID), b, ttl).Err()
}

// Get loads the credential; a missing key is errs.ErrNotFound.
func (r *TokenRepo) Get(ctx context.Context, profileID uuid.UUID) (model.SessionToken, error) {
	b, err := r.rdb.Get(ctx, key(profileID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.SessionToken{}, errs.ErrNotFound
	}
	if err != nil {
		return model.SessionToken{}, err
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return model.SessionToken{}, fmt.Errorf("decode session record: %w", err)
	}
	return model.SessionToken{Value: rec.AccessToken, ExpiresAt: rec.ExpiresAt}, nil
}
