// Package account orchestrates the login, profile-update and logout flows.
//
// Pure pieces (serializer, phone normalizer, validity tracker, stores) are
// wired here to thin page adapters: a Navigator, a Notifier, a Poster for the
// first-party login endpoint and a Button for the submit affordance.
package account

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/shop-account/internal/metrics"
	"github.com/and161185/shop-account/internal/model"
	"github.com/and161185/shop-account/internal/session"
	"github.com/and161185/shop-account/internal/storefront"
)

// State is the controller's submission state.
type State int

// Submission states. Success and Failed are transient; the controller
// always settles back to Idle.
const (
	Idle State = iota
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mutator is the subset of the storefront client the flows use.
type Mutator interface {
	CustomerAccessTokenCreate(ctx context.Context, email, password string) (*storefront.Response[storefront.AccessTokenCreateData], error)
	CustomerUpdate(ctx context.Context, token *string, customer model.FormPayload) (*storefront.Response[storefront.CustomerUpdateData], error)
}

var _ Mutator = (*storefront.Client)(nil)

// Navigator moves the page.
type Navigator interface {
	Navigate(route string)
	Reload()
}

// Notifier shows a blocking user-facing message.
type Notifier interface {
	Notify(msg string)
}

// Poster submits a raw form to a first-party endpoint.
type Poster interface {
	Post(ctx context.Context, action, method string, values url.Values) error
}

// Button is the submit affordance.
type Button interface {
	SetEnabled(enabled bool)
	SetLoading(loading bool)
}

// Config holds the externally configured routes.
type Config struct {
	AccountRoute string
	LogoutRoute  string
	TokenTTLDays int
}

// Deps are the collaborators injected at construction.
type Deps struct {
	Client    Mutator
	Store     session.Store
	Navigator Navigator
	Notifier  Notifier
	Poster    Poster
	Metrics   *metrics.Recorder
	Logger    *zap.Logger
}

// Controller runs the account flows.
type Controller struct {
	cfg  Config
	deps Deps
	log  *zap.Logger

	mu    sync.Mutex
	state State
}

// New constructs a controller; TokenTTLDays defaults to one day.
func New(cfg Config, deps Deps) *Controller {
	if cfg.TokenTTLDays <= 0 {
		cfg.TokenTTLDays = session.LoginTTLDays
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{cfg: cfg, deps: deps, log: log}
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) transition(to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()
	c.log.Debug("account state", zap.Stringer("from", from), zap.Stringer("to", to))
}

// settle records a terminal state and returns to Idle.
func (c *Controller) settle(terminal State) {
	c.transition(terminal)
	c.transition(Idle)
}

// Logout clears the credential, then navigates to the logout route.
// There is no server round trip and the token is not revoked.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.deps.Store.Clear(ctx); err != nil {
		c.log.Error("clear session token", zap.Error(err))
		return err
	}
	c.deps.Metrics.Submission("logout", metrics.OutcomeOK)
	c.deps.Navigator.Navigate(c.cfg.LogoutRoute)
	return nil
}

// joinMessages renders messages the way the page shows them.
func joinMessages(msgs []string) string { return strings.Join(msgs, " and ") }
