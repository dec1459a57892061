// Package config loads the storefront endpoint, routes and session backend.
//
// Sources are applied in priority order: overrides > env > file > defaults.
// Environment keys use the SHOPACCOUNT_ prefix; the first underscore after the
// prefix separates the section, so SHOPACCOUNT_STOREFRONT_ACCESS_TOKEN maps to
// storefront.access_token.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "SHOPACCOUNT_"

// Session backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendCookie   = "cookie"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Storefront is the remote GraphQL endpoint.
type Storefront struct {
	Endpoint    string        `koanf:"endpoint"`
	AccessToken string        `koanf:"access_token"`
	Timeout     time.Duration `koanf:"timeout"`
}

// Routes are the site paths the flows navigate to or post at.
type Routes struct {
	Account     string `koanf:"account"`
	Logout      string `koanf:"logout"`
	LoginAction string `koanf:"login_action"`
}

// Session selects where the customer token lives.
type Session struct {
	Backend   string `koanf:"backend"`
	TTLDays   int    `koanf:"ttl_days"`
	ProfileID string `koanf:"profile_id"`
	Dir       string `koanf:"dir"`
}

// Postgres is the shared token store database.
type Postgres struct {
	DSN string `koanf:"dsn"`
}

// Redis is the shared token store cache.
type Redis struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Log controls the logger.
type Log struct {
	Level string `koanf:"level"`
}

// Config is the full runtime configuration.
type Config struct {
	Storefront Storefront `koanf:"storefront"`
	Routes     Routes     `koanf:"routes"`
	Session    Session    `koanf:"session"`
	Postgres   Postgres   `koanf:"postgres"`
	Redis      Redis      `koanf:"redis"`
	Log        Log        `koanf:"log"`
}

// Defaults are the values used when no source sets a key.
func Defaults() map[string]any {
	return map[string]any{
		"storefront.timeout":  "30s",
		"routes.account":      "/account",
		"routes.logout":       "/account/logout",
		"routes.login_action": "/account/login",
		"session.backend":     BackendFile,
		"session.ttl_days":    1,
		"redis.addr":          "localhost:6379",
		"log.level":           "info",
	}
}

// Load reads configuration from defaults, the optional YAML file at path,
// the environment and finally overrides (flag values keyed like "routes.account").
func Load(path string, overrides map[string]any) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(mapProvider(Defaults()), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	if len(overrides) > 0 {
		if err := k.Load(mapProvider(overrides), nil); err != nil {
			return Config{}, fmt.Errorf("load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// Validate checks required keys and backend-specific settings.
func (c Config) Validate() error {
	var errList []error
	if c.Storefront.Endpoint == "" {
		errList = append(errList, errors.New("config: storefront.endpoint is required"))
	}
	if c.Storefront.AccessToken == "" {
		errList = append(errList, errors.New("config: storefront.access_token is required"))
	}
	if c.Storefront.Timeout < 0 {
		errList = append(errList, errors.New("config: storefront.timeout must not be negative"))
	}
	if c.Session.TTLDays <= 0 {
		errList = append(errList, errors.New("config: session.ttl_days must be positive"))
	}

	switch c.Session.Backend {
	case BackendFile, BackendMemory, BackendCookie:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			errList = append(errList, errors.New("config: postgres.dsn is required for the postgres backend"))
		}
		errList = append(errList, c.validateProfile()...)
	case BackendRedis:
		if c.Redis.Addr == "" {
			errList = append(errList, errors.New("config: redis.addr is required for the redis backend"))
		}
		errList = append(errList, c.validateProfile()...)
	default:
		errList = append(errList, fmt.Errorf("config: unknown session.backend %q", c.Session.Backend))
	}
	return errors.Join(errList...)
}

func (c Config) validateProfile() []error {
	if c.Session.ProfileID == "" {
		return []error{errors.New("config: session.profile_id is required for shared backends")}
	}
	if _, err := uuid.FromString(c.Session.ProfileID); err != nil {
		return []error{fmt.Errorf("config: session.profile_id: %w", err)}
	}
	return nil
}

// Profile parses the configured browser-profile id.
func (c Config) Profile() (uuid.UUID, error) {
	return uuid.FromString(c.Session.ProfileID)
}

// mapProvider feeds a flat or nested map into koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("config: map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) {
	return unflatten(m), nil
}

// unflatten expands dotted keys so they merge with nested sources.
func unflatten(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, v := range in {
		parts := strings.Split(key, ".")
		cur := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := cur[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				cur[p] = next
			}
			cur = next
		}
		cur[parts[len(parts)-1]] = v
	}
	return out
}
