package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/session"
)

// terminal adapts page effects to the console.
type terminal struct {
	out    io.Writer
	errOut io.Writer
	store  session.Store
}

func (t *terminal) Notify(msg string) { fmt.Fprintln(t.errOut, msg) }

func (t *terminal) Navigate(route string) { fmt.Fprintf(t.out, "-> %s\n", route) }

// Reload re-reads the session, the console equivalent of a page refresh.
func (t *terminal) Reload() {
	ctx, cancel := withTimeout(context.Background())
	defer cancel()
	if err := t.printSession(ctx); err != nil {
		fmt.Fprintln(t.errOut, "error:", err)
	}
}

func (t *terminal) printSession(ctx context.Context) error {
	tok, err := session.Require(ctx, t.store)
	switch {
	case errors.Is(err, errs.ErrNoToken):
		fmt.Fprintln(t.out, "not logged in")
	case err != nil:
		return err
	case tok.ExpiresAt.IsZero():
		fmt.Fprintln(t.out, "logged in (session)")
	default:
		fmt.Fprintf(t.out, "logged in until %s\n", tok.ExpiresAt.Local().Format(time.RFC3339))
	}
	return nil
}

// button records the submit affordance state.
type button struct {
	enabled bool
	loading bool
}

func (b *button) SetEnabled(on bool) { b.enabled = on }
func (b *button) SetLoading(on bool) { b.loading = on }
