package account

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/and161185/shop-account/internal/form"
)

// HTTPPoster submits forms as multipart bodies relative to a site base URL.
type HTTPPoster struct {
	base *url.URL
	http *http.Client
}

var _ Poster = (*HTTPPoster)(nil)

// NewHTTPPoster returns a poster resolving actions against base.
// With the cookie session backend, hc carries the jar that store writes to.
func NewHTTPPoster(base *url.URL, hc *http.Client) *HTTPPoster {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPPoster{base: base, http: hc}
}

// Post sends values to action. The response body is discarded.
func (p *HTTPPoster) Post(ctx context.Context, action, method string, values url.Values) error {
	target, err := p.base.Parse(action)
	if err != nil {
		return fmt.Errorf("parse action %q: %w", action, err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, pair := range form.PairsFromValues(values) {
		if err := mw.WriteField(pair.Name, pair.Value); err != nil {
			return fmt.Errorf("write field %q: %w", pair.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), target.String(), &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", target.Path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
