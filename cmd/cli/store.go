package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/and161185/shop-account/internal/account"
	"github.com/and161185/shop-account/internal/config"
	"github.com/and161185/shop-account/internal/migrate"
	"github.com/and161185/shop-account/internal/repository/postgres"
	"github.com/and161185/shop-account/internal/repository/redis"
	"github.com/and161185/shop-account/internal/session"
)

// openStore builds the configured session store. The cookie backend keeps
// the token in jar, the same jar the first-party poster sends from. The
// returned closer releases any connection the store holds.
func openStore(ctx context.Context, cfg config.Config, jar http.CookieJar, site *url.URL, logger *zap.Logger) (session.Store, func(), error) {
	noop := func() {}
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return session.NewMemoryStore(), noop, nil

	case config.BackendCookie:
		logger.Debug("session store", zap.String("backend", "cookie"), zap.String("site", site.String()))
		return session.NewCookieStore(jar, site), noop, nil

	case config.BackendPostgres:
		profile, err := cfg.Profile()
		if err != nil {
			return nil, nil, err
		}
		if err := migrate.Up(ctx, cfg.Postgres.DSN, logger); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := session.NewRepoStore(postgres.NewTokenRepo(db), profile)
		logger.Debug("session store", zap.String("backend", "postgres"), zap.Stringer("profile", store.Profile()))
		return store, db.Close, nil

	case config.BackendRedis:
		profile, err := cfg.Profile()
		if err != nil {
			return nil, nil, err
		}
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		store := session.NewRepoStore(redis.NewTokenRepo(rdb), profile)
		logger.Debug("session store", zap.String("backend", "redis"), zap.Stringer("profile", store.Profile()))
		return store, func() { _ = rdb.Close() }, nil

	default:
		s := session.NewFileStore(cfg.Session.Dir)
		logger.Debug("session store", zap.String("backend", "file"), zap.String("path", s.Path()))
		return s, noop, nil
	}
}

// siteURL is the storefront origin derived from the API endpoint.
func siteURL(endpoint string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse storefront.endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("storefront.endpoint %q is not absolute", endpoint)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}

// newJar returns the cookie jar shared by the poster and the cookie backend.
func newJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return jar, nil
}

// newPoster returns the first-party form poster sending from jar.
func newPoster(cfg config.Config, jar http.CookieJar, site *url.URL) *account.HTTPPoster {
	return account.NewHTTPPoster(site, &http.Client{Jar: jar, Timeout: cfg.Storefront.Timeout})
}
