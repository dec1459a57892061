package account

import (
	"context"

	"go.uber.org/zap"

	"github.com/and161185/shop-account/internal/form"
	"github.com/and161185/shop-account/internal/metrics"
	"github.com/and161185/shop-account/internal/model"
	"github.com/and161185/shop-account/internal/storefront"
)

// Login field names inside the customer group.
const (
	LoginEmailField    = "customer[email]"
	LoginPasswordField = "customer[password]"
)

// LoginForm runs the login flow over a bound form.
type LoginForm struct {
	c    *Controller
	form *form.Model
}

// NewLoginForm binds f to the login flow.
func (c *Controller) NewLoginForm(f *form.Model) *LoginForm {
	return &LoginForm{c: c, form: f}
}

// Set updates a field value.
func (l *LoginForm) Set(name, value string) bool { return l.form.Set(name, value) }

// Submit posts the raw form to the first-party action, exchanges the
// credentials for a storefront token and navigates to the account route.
// Navigation happens whether or not a token was obtained; failures are
// logged and reported in the returned result only.
func (l *LoginForm) Submit(ctx context.Context) model.MutationResult[model.CustomerAccessToken] {
	c := l.c
	c.transition(Submitting)

	if c.deps.Poster != nil {
		if err := c.deps.Poster.Post(ctx, l.form.Action, l.form.Method, l.form.Values()); err != nil {
			c.log.Debug("first-party login post", zap.String("action", l.form.Action), zap.Error(err))
		}
	}

	email, password := credentials(l.form.Object())
	res, outcome := c.exchange(ctx, email, password)

	c.deps.Metrics.Submission("login", outcome)
	if res.OK() {
		c.settle(Success)
	} else {
		c.settle(Failed)
	}
	c.deps.Navigator.Navigate(c.cfg.AccountRoute)
	return res
}

func (c *Controller) exchange(ctx context.Context, email, password string) (model.MutationResult[model.CustomerAccessToken], string) {
	resp, err := c.deps.Client.CustomerAccessTokenCreate(ctx, email, password)
	if err != nil {
		c.log.Warn("customer access token request", zap.Error(err))
		return model.Failed[model.CustomerAccessToken](), metrics.OutcomeTransport
	}

	var p storefront.AccessTokenCreatePayload
	if resp.Data != nil && resp.Data.CustomerAccessTokenCreate != nil {
		p = *resp.Data.CustomerAccessTokenCreate
	}
	tok := p.CustomerAccessToken
	if tok != nil && tok.AccessToken == "" {
		tok = nil
	}
	// an issued token is kept even when errors accompany it
	if tok != nil {
		if err := c.deps.Store.Set(ctx, tok.AccessToken, c.cfg.TokenTTLDays); err != nil {
			c.log.Error("persist session token", zap.Error(err))
			return model.Failed[model.CustomerAccessToken](), metrics.OutcomeTransport
		}
	}

	res, schema := interpret(resp.Errors, p.CustomerUserErrors, tok)
	switch {
	case res.OK():
		return res, metrics.OutcomeOK
	case schema:
		c.log.Info("customer access token errors", zap.Strings("messages", res.Messages), zap.Bool("persisted", tok != nil))
		return res, metrics.OutcomeSchema
	default:
		c.log.Info("customer access token errors", zap.Strings("messages", res.Messages), zap.Bool("persisted", tok != nil))
		return res, metrics.OutcomeDomain
	}
}

// credentials pulls email and password out of the serialized customer group.
func credentials(p model.FormPayload) (email, password string) {
	customer, _ := p["customer"].(model.FormPayload)
	email, _ = customer["email"].(string)
	password, _ = customer["password"].(string)
	return email, password
}
