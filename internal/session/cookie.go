package session

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/and161185/shop-account/internal/model"
)

// CookieStore keeps the credential as the customerAccessToken cookie of a site,
// path "/". The jar enforces expiry, so Get never reports ExpiresAt.
type CookieStore struct {
	jar  http.CookieJar
	site *url.URL
	now  func() time.Time
}

var _ Store = (*CookieStore)(nil)

// NewCookieStore binds the store to jar and the storefront site URL.
func NewCookieStore(jar http.CookieJar, site *url.URL) *CookieStore {
	return &CookieStore{jar: jar, site: site, now: time.Now}
}

// Get reads the cookie back from the jar.
func (s *CookieStore) Get(context.Context) (model.SessionToken, bool, error) {
	for _, c := range s.jar.Cookies(s.site) {
		if c.Name == model.SessionTokenName && c.Value != "" {
			return model.SessionToken{Value: c.Value}, true, nil
		}
	}
	return model.SessionToken{}, false, nil
}

// Set writes the cookie; ttlDays <= 0 writes a session cookie.
func (s *CookieStore) Set(_ context.Context, value string, ttlDays int) error {
	c := &http.Cookie{Name: model.SessionTokenName, Value: value, Path: "/"}
	if exp := ExpiryFor(s.now(), ttlDays); !exp.IsZero() {
		c.Expires = exp
	}
	s.jar.SetCookies(s.site, []*http.Cookie{c})
	return nil
}

// Clear writes an already-expired cookie, which the jar drops.
func (s *CookieStore) Clear(context.Context) error {
	s.jar.SetCookies(s.site, []*http.Cookie{{
		Name:    model.SessionTokenName,
		Value:   "",
		Path:    "/",
		Expires: Expired,
	}})
	return nil
}
