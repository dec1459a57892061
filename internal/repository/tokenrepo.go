// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/shop-account/internal/model"
	"github.com/gofrs/uuid/v5"
)

// TokenRepository keeps one session credential per browser profile.
type TokenRepository interface {
	// Put inserts or replaces the profile's credential.
	Put(ctx context.Context, profileID uuid.UUID, tok model.SessionToken) error
	// Get loads the profile's credential; errs.ErrNotFound when none was ever written.
	Get(ctx context.Context, profileID uuid.UUID) (model.SessionToken, error)
}
