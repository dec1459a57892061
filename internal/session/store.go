// Package session stores the client-held customer credential.
//
// Every Store keeps at most one credential. Clear writes an already-expired
// record rather than deleting, after which Get reports absence. Nothing here
// revokes the credential server-side; logout is "stop sending it".
package session

import (
	"context"
	"sync"
	"time"

	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/model"
)

// LoginTTLDays is the lifetime of a credential written after login.
const LoginTTLDays = 1

const day = 24 * time.Hour

// Store is the get/set/clear capability over the session credential.
type Store interface {
	// Get returns the credential and true, or false when absent or expired.
	Get(ctx context.Context) (model.SessionToken, bool, error)
	// Set writes value valid for ttlDays*86400 seconds; ttlDays <= 0 writes a session credential.
	Set(ctx context.Context, value string, ttlDays int) error
	// Clear writes an already-expired record.
	Clear(ctx context.Context) error
}

// Expired is the instant written by Clear.
var Expired = time.Unix(1, 0).UTC()

// ExpiryFor computes the expiry instant for ttlDays from now; zero when ttlDays <= 0.
func ExpiryFor(now time.Time, ttlDays int) time.Time {
	if ttlDays <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(ttlDays) * day)
}

// Require returns the current credential or errs.ErrNoToken.
func Require(ctx context.Context, s Store) (model.SessionToken, error) {
	tok, ok, err := s.Get(ctx)
	if err != nil {
		return model.SessionToken{}, err
	}
	if !ok {
		return model.SessionToken{}, errs.ErrNoToken
	}
	return tok, nil
}

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	tok model.SessionToken
	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{now: time.Now} }

// WithClock overrides the time source (tests).
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// Get returns the current credential when valid.
func (s *MemoryStore) Get(context.Context) (model.SessionToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tok.Valid(s.now()) {
		return model.SessionToken{}, false, nil
	}
	return s.tok, true, nil
}

// Set replaces the credential.
func (s *MemoryStore) Set(_ context.Context, value string, ttlDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = model.SessionToken{Value: value, ExpiresAt: ExpiryFor(s.now(), ttlDays)}
	return nil
}

// Clear expires the credential.
func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = model.SessionToken{ExpiresAt: Expired}
	return nil
}
