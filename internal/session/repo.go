package session

import (
	"context"
	"errors"
	"time"

	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/model"
	"github.com/and161185/shop-account/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// RepoStore is a Store over a shared TokenRepository, scoped to one browser profile.
type RepoStore struct {
	repo    repository.TokenRepository
	profile uuid.UUID
	now     func() time.Time
}

var _ Store = (*RepoStore)(nil)

// NewRepoStore scopes repo to profile.
func NewRepoStore(repo repository.TokenRepository, profile uuid.UUID) *RepoStore {
	return &RepoStore{repo: repo, profile: profile, now: time.Now}
}

// Profile is the browser profile the store is scoped to.
func (s *RepoStore) Profile() uuid.UUID { return s.profile }

// Get loads the profile's credential.
func (s *RepoStore) Get(ctx context.Context) (model.SessionToken, bool, error) {
	tok, err := s.repo.Get(ctx, s.profile)
	if errors.Is(err, errs.ErrNotFound) {
		return model.SessionToken{}, false, nil
	}
	if err != nil {
		return model.SessionToken{}, false, err
	}
	if !tok.Valid(s.now()) {
		return model.SessionToken{}, false, nil
	}
	return tok, true, nil
}

// Set writes the profile's credential.
func (s *RepoStore) Set(ctx context.Context, value string, ttlDays int) error {
	return s.repo.Put(ctx, s.profile, model.SessionToken{Value: value, ExpiresAt: ExpiryFor(s.now(), ttlDays)})
}

// Clear writes an expired, empty record for the profile.
func (s *RepoStore) Clear(ctx context.Context) error {
	return s.repo.Put(ctx, s.profile, model.SessionToken{ExpiresAt: Expired})
}
