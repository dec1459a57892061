package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeYAML(t, `
storefront:
  endpoint: https://shop.example.com/api/2024-01/graphql.json
  access_token: sf-token
  timeout: 10s
routes:
  account: /en/account
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	require.Equal(t, "https://shop.example.com/api/2024-01/graphql.json", cfg.Storefront.Endpoint)
	require.Equal(t, 10*time.Second, cfg.Storefront.Timeout)
	require.Equal(t, "/en/account", cfg.Routes.Account)
	require.Equal(t, "/account/logout", cfg.Routes.Logout)
	require.Equal(t, "/account/login", cfg.Routes.LoginAction)
	require.Equal(t, BackendFile, cfg.Session.Backend)
	require.Equal(t, 1, cfg.Session.TTLDays)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvAndOverridesWin(t *testing.T) {
	path := writeYAML(t, `
storefront:
  endpoint: https://file.example.com/graphql
  access_token: from-file
`)
	t.Setenv("SHOPACCOUNT_STOREFRONT_ACCESS_TOKEN", "from-env")
	t.Setenv("SHOPACCOUNT_SESSION_TTL_DAYS", "3")
	t.Setenv("SHOPACCOUNT_ROUTES_ACCOUNT", "/env/account")

	cfg, err := Load(path, map[string]any{"routes.account": "/flag/account"})
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Storefront.AccessToken)
	require.Equal(t, 3, cfg.Session.TTLDays)
	require.Equal(t, "/flag/account", cfg.Routes.Account)
	require.Equal(t, "https://file.example.com/graphql", cfg.Storefront.Endpoint)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Storefront: Storefront{Endpoint: "https://x", AccessToken: "t"},
			Session:    Session{Backend: BackendMemory, TTLDays: 1},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "cookie backend", mutate: func(c *Config) { c.Session.Backend = BackendCookie }},
		{name: "no endpoint", mutate: func(c *Config) { c.Storefront.Endpoint = "" }, wantErr: "config: storefront.endpoint is required"},
		{name: "no token", mutate: func(c *Config) { c.Storefront.AccessToken = "" }, wantErr: "config: storefront.access_token is required"},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTLDays = 0 }, wantErr: "session.ttl_days"},
		{name: "unknown backend", mutate: func(c *Config) { c.Session.Backend = "etcd" }, wantErr: `unknown session.backend "etcd"`},
		{name: "postgres without dsn", mutate: func(c *Config) {
			c.Session.Backend = BackendPostgres
			c.Session.ProfileID = "0d9b8f5e-3c41-4a55-9a4c-1f0b8a2f6e01"
		}, wantErr: "postgres.dsn"},
		{name: "redis without profile", mutate: func(c *Config) {
			c.Session.Backend = BackendRedis
			c.Redis.Addr = "localhost:6379"
		}, wantErr: "session.profile_id is required"},
		{name: "bad profile", mutate: func(c *Config) {
			c.Session.Backend = BackendRedis
			c.Redis.Addr = "localhost:6379"
			c.Session.ProfileID = "not-a-uuid"
		}, wantErr: "config: session.profile_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := base()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	c := Config{Session: Session{ProfileID: "0d9b8f5e-3c41-4a55-9a4c-1f0b8a2f6e01"}}
	id, err := c.Profile()
	require.NoError(t, err)
	require.Equal(t, "0d9b8f5e-3c41-4a55-9a4c-1f0b8a2f6e01", id.String())
}

func TestEnvKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "storefront.access_token", envKey("SHOPACCOUNT_STOREFRONT_ACCESS_TOKEN"))
	require.Equal(t, "log.level", envKey("SHOPACCOUNT_LOG_LEVEL"))
}
