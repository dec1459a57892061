// Command shop-account signs a customer in to the storefront, updates the
// profile and signs out, keeping the customer token in the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/and161185/shop-account/internal/account"
	"github.com/and161185/shop-account/internal/config"
	"github.com/and161185/shop-account/internal/metrics"
	"github.com/and161185/shop-account/internal/session"
	"github.com/and161185/shop-account/internal/storefront"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const requestTimeout = 30 * time.Second

// errReported marks failures already shown to the user.
var errReported = errors.New("reported")

func withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, requestTimeout)
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "shop-account",
		Usage:     "storefront customer account client",
		Version:   fmt.Sprintf("%s (%s)", version, buildDate),
		Writer:    stdout,
		ErrWriter: stderr,

		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"SHOPACCOUNT_CONFIG"}},
			&cli.StringFlag{Name: "backend", Usage: "session backend: file, memory, postgres, redis"},
			&cli.StringFlag{Name: "log-level", Usage: "debug or info"},
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			updateCommand(),
			tokenCommand(),
			{
				Name:  "version",
				Usage: "print version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "shop-account %s (%s)\n", version, buildDate)
					return nil
				},
			},
		},
	}
}

// env is everything a command needs, built from flags and config.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	store  session.Store
	ctrl   *account.Controller
	term   *terminal
	closer func()
}

func (e *env) Close() {
	if e.closer != nil {
		e.closer()
	}
	_ = e.log.Sync()
}

func overrides(c *cli.Context) map[string]any {
	out := map[string]any{}
	if v := c.String("backend"); v != "" {
		out["session.backend"] = v
	}
	if v := c.String("log-level"); v != "" {
		out["log.level"] = v
	}
	return out
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"), overrides(c))
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	site, err := siteURL(cfg.Storefront.Endpoint)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	jar, err := newJar()
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	ctx, cancel := withTimeout(c.Context)
	defer cancel()
	store, closer, err := openStore(ctx, cfg, jar, site, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	rec := metrics.New(prometheus.NewRegistry())
	client := storefront.New(storefront.Config{
		Endpoint:    cfg.Storefront.Endpoint,
		AccessToken: cfg.Storefront.AccessToken,
		Timeout:     cfg.Storefront.Timeout,
	}, storefront.WithLogger(logger), storefront.WithMetrics(rec))

	poster := newPoster(cfg, jar, site)

	term := &terminal{out: c.App.Writer, errOut: c.App.ErrWriter, store: store}
	ctrl := account.New(account.Config{
		AccountRoute: cfg.Routes.Account,
		LogoutRoute:  cfg.Routes.Logout,
		TokenTTLDays: cfg.Session.TTLDays,
	}, account.Deps{
		Client:    client,
		Store:     store,
		Navigator: term,
		Notifier:  term,
		Poster:    poster,
		Metrics:   rec,
		Logger:    logger,
	})
	return &env{cfg: cfg, log: logger, store: store, ctrl: ctrl, term: term, closer: closer}, nil
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "show whether a customer session is present",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, cancel := withTimeout(c.Context)
			defer cancel()
			return e.term.printSession(ctx)
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the customer token",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, cancel := withTimeout(c.Context)
			defer cancel()
			return e.ctrl.Logout(ctx)
		},
	}
}
