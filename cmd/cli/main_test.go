package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/shop-account/internal/config"
	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/session"
)

type shop struct {
	mu        sync.Mutex
	logins    int
	requests  int
	lastQuery string
	lastVars  map[string]any
	reply     string
}

func newShop(t *testing.T) (*shop, *httptest.Server) {
	t.Helper()
	s := &shop{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if r.URL.Path == "/account/login" {
			s.logins++
			return
		}
		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		s.requests++
		s.lastQuery, s.lastVars = body.Query, body.Variables
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(body.Query, "customerAccessTokenCreate("):
			_, _ = w.Write([]byte(`{"data":{"customerAccessTokenCreate":{"customerAccessToken":{"accessToken":"cat-1","expiresAt":"2099-01-01T00:00:00Z"},"customerUserErrors":[]}}}`))
		case s.reply != "":
			_, _ = w.Write([]byte(s.reply))
		default:
			_, _ = w.Write([]byte(`{"data":{"customerUpdate":{"customer":{"id":"1"},"customerAccessToken":null,"userErrors":[]}}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func withEnv(t *testing.T, endpoint string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SHOPACCOUNT_STOREFRONT_ENDPOINT", endpoint)
	t.Setenv("SHOPACCOUNT_STOREFRONT_ACCESS_TOKEN", "sf-token")
	return filepath.Join(dir, "shop-account")
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := newApp(&out, &errOut).Run(append([]string{"shop-account"}, args...))
	return out.String(), errOut.String(), err
}

func TestCLI_LoginUpdateLogout(t *testing.T) {
	s, srv := newShop(t)
	dir := withEnv(t, srv.URL+"/api/2024-01/graphql.json")

	out, _, err := run(t, "login", "--email", "ann@example.com", "--password", "pw")
	require.NoError(t, err)
	require.Equal(t, "-> /account\n", out)
	require.Equal(t, 1, s.logins)
	require.FileExists(t, filepath.Join(dir, "token.json"))

	out, _, err = run(t, "token")
	require.NoError(t, err)
	require.Contains(t, out, "logged in until")

	out, _, err = run(t, "update", "--field", "firstName=Ann", "--field", "phone=0412 345 678", "--dial-code", "61")
	require.NoError(t, err)
	require.Contains(t, out, "logged in until", "reload re-prints the session")
	require.Equal(t, "cat-1", s.lastVars["customerAccessToken"])
	require.Equal(t, map[string]any{"firstName": "Ann", "phone": "+61412345678"}, s.lastVars["customer"])

	out, _, err = run(t, "logout")
	require.NoError(t, err)
	require.Equal(t, "-> /account/logout\n", out)

	out, _, err = run(t, "token")
	require.NoError(t, err)
	require.Equal(t, "not logged in\n", out)
}

func TestCLI_UpdateUserErrors(t *testing.T) {
	s, srv := newShop(t)
	_ = withEnv(t, srv.URL+"/graphql")
	s.reply = `{"data":{"customerUpdate":{"customer":null,"customerAccessToken":null,"userErrors":[{"field":["email"],"message":"Email is invalid"}]}}}`

	out, errOut, err := run(t, "update", "--field", "lastName=Smith, Jr.")
	require.ErrorIs(t, err, errReported)
	require.Equal(t, "Email is invalid\n", errOut)
	require.Empty(t, out, "no reload on failure")
	require.Nil(t, s.lastVars["customerAccessToken"], "no session: token sent as null")
	require.Equal(t, "Smith, Jr.", s.lastVars["customer"].(map[string]any)["lastName"])
}

func TestCLI_InvalidField(t *testing.T) {
	_, srv := newShop(t)
	_ = withEnv(t, srv.URL+"/graphql")

	_, _, err := run(t, "update", "--field", "email=nope")
	require.ErrorContains(t, err, "invalid form")

	_, _, err = run(t, "update", "--field", "novalue")
	require.ErrorContains(t, err, "want name=value")
}

func TestCLI_UpdateBlankFieldSendsNothing(t *testing.T) {
	s, srv := newShop(t)
	_ = withEnv(t, srv.URL+"/graphql")

	out, _, err := run(t, "update", "--field", "firstName=", "--field", "lastName=Smith")
	require.ErrorIs(t, err, errs.ErrInvalidForm)
	require.ErrorContains(t, err, "form incomplete")
	require.Empty(t, out)
	require.Zero(t, s.requests, "disabled submit must not reach the storefront")
}

func TestOpenStore_CookieSharesPosterJar(t *testing.T) {
	t.Parallel()

	var sent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("customerAccessToken"); err == nil {
			sent = c.Value
		}
	}))
	t.Cleanup(srv.Close)

	site, err := siteURL(srv.URL + "/api/2024-01/graphql.json")
	require.NoError(t, err)
	jar, err := newJar()
	require.NoError(t, err)

	cfg := config.Config{Session: config.Session{Backend: config.BackendCookie, TTLDays: 1}}
	store, closer, err := openStore(context.Background(), cfg, jar, site, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer closer()
	require.IsType(t, &session.CookieStore{}, store)

	require.NoError(t, store.Set(context.Background(), "cat-7", 1))
	require.NoError(t, newPoster(cfg, jar, site).Post(context.Background(), "/account/login", "post", nil))
	require.Equal(t, "cat-7", sent, "poster sends the stored token cookie")

	require.NoError(t, store.Clear(context.Background()))
	_, ok, err := store.Get(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCLI_ConfigErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SHOPACCOUNT_STOREFRONT_ENDPOINT", "")
	_, _, err := run(t, "token")
	require.ErrorContains(t, err, "config: storefront.endpoint is required")

	_, _, err = run(t, "--backend", "etcd", "token")
	require.ErrorContains(t, err, `unknown session.backend "etcd"`)
}

func TestCLI_Version(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, "shop-account dev (unknown)\n", out)
}

func TestParseFields(t *testing.T) {
	t.Parallel()

	fields, err := parseFields([]string{"email=a@b.co", "customer[acceptsMarketing]=true", "note=a=b"})
	require.NoError(t, err)
	require.Len(t, fields, 3)
	require.Equal(t, "customer[email]", fields[0].Name)
	require.True(t, fields[0].Constraint.Required)
	require.Equal(t, "customer[acceptsMarketing]", fields[1].Name)
	require.Equal(t, "a=b", fields[2].Value)
}

func TestSiteURL(t *testing.T) {
	t.Parallel()

	u, err := siteURL("https://shop.example.com/api/2024-01/graphql.json")
	require.NoError(t, err)
	require.Equal(t, "https://shop.example.com/", u.String())

	_, err = siteURL("/relative")
	require.Error(t, err)
}

func TestReadPassword(t *testing.T) {
	t.Parallel()

	pw, err := readPassword(strings.NewReader("s3cret\r\n"))
	require.NoError(t, err)
	require.Equal(t, "s3cret", pw)

	pw, err = readPassword(strings.NewReader("last"))
	require.NoError(t, err)
	require.Equal(t, "last", pw)
}
