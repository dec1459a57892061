package account

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/form"
	"github.com/and161185/shop-account/internal/metrics"
	"github.com/and161185/shop-account/internal/model"
	"github.com/and161185/shop-account/internal/phone"
	"github.com/and161185/shop-account/internal/storefront"
	"github.com/and161185/shop-account/internal/validation"
)

// ProfileForm runs the profile-update flow over a bound form.
type ProfileForm struct {
	c       *Controller
	form    *form.Model
	phone   *phone.Input
	tracker *validation.Tracker
	button  Button
}

// NewProfileForm binds f to the update flow. phoneField names the phone
// input; its value is normalized against dialCode immediately.
func (c *Controller) NewProfileForm(f *form.Model, phoneField, dialCode string, button Button) (*ProfileForm, error) {
	pf := &ProfileForm{c: c, form: f, button: button}
	if field, ok := f.Field(phoneField); ok {
		in, err := phone.NewInput(field, dialCode)
		if err != nil {
			return nil, fmt.Errorf("bind phone field %q: %w", phoneField, err)
		}
		pf.phone = in
	}
	var a validation.Affordance
	if button != nil {
		a = button
	}
	pf.tracker = validation.New(f.Fields(), a)
	return pf, nil
}

// Input handles an edit of one field and returns whether submit is enabled.
func (p *ProfileForm) Input(name, value string) bool {
	on := p.tracker.OnInput(name, value)
	if p.phone == nil || p.phone.Name() != name {
		return on
	}
	if err := p.phone.Refresh(); err != nil {
		p.c.log.Warn("normalize phone", zap.Error(err))
		return on
	}
	return p.tracker.Refresh(name)
}

// ChangeCountry switches the phone's dial code and re-evaluates the form.
func (p *ProfileForm) ChangeCountry(dialCode string) error {
	if p.phone == nil {
		return nil
	}
	if err := p.phone.SetDialCode(dialCode); err != nil {
		return err
	}
	p.tracker.Refresh(p.phone.Name())
	return nil
}

// Validation returns the tracker snapshot.
func (p *ProfileForm) Validation() model.ValidationState { return p.tracker.State() }

// Submit sends customerUpdate with the serialized customer group and the
// stored token. Success reloads the page; any failure is shown through the
// notifier and the submit affordance is re-enabled.
func (p *ProfileForm) Submit(ctx context.Context) (model.MutationResult[storefront.CustomerUpdatePayload], error) {
	c := p.c
	if p.phone != nil {
		if err := p.phone.Refresh(); err != nil {
			return model.Failed[storefront.CustomerUpdatePayload](), err
		}
	}
	if !p.form.CheckValidity() {
		c.deps.Metrics.Submission("update", metrics.OutcomeInvalid)
		c.transition(Idle)
		return model.Failed[storefront.CustomerUpdatePayload](), errs.ErrInvalidForm
	}

	customer, _ := p.form.Object()["customer"].(model.FormPayload)
	if customer == nil {
		customer = model.FormPayload{}
	}

	var token *string
	tok, ok, err := c.deps.Store.Get(ctx)
	switch {
	case err != nil:
		c.log.Warn("read session token", zap.Error(err))
	case ok:
		token = &tok.Value
	}

	c.transition(Submitting)
	p.setLoading(true)
	defer p.setLoading(false)

	resp, err := c.deps.Client.CustomerUpdate(ctx, token, customer)
	if err != nil {
		c.log.Warn("customer update request", zap.Error(err))
		c.deps.Metrics.Submission("update", metrics.OutcomeTransport)
		c.deps.Notifier.Notify(MsgUpdateUnavailable)
		p.enable()
		c.settle(Failed)
		return model.Failed[storefront.CustomerUpdatePayload](MsgUpdateUnavailable), err
	}

	var payload *storefront.CustomerUpdatePayload
	var userErrs []model.UserError
	if resp.Data != nil && resp.Data.CustomerUpdate != nil {
		payload = resp.Data.CustomerUpdate
		userErrs = payload.UserErrors
	}
	res, schema := interpret(resp.Errors, userErrs, payload)
	if res.OK() {
		c.deps.Metrics.Submission("update", metrics.OutcomeOK)
		c.settle(Success)
		c.deps.Navigator.Reload()
		return res, nil
	}

	kind, outcome := errs.ErrDomainValidation, metrics.OutcomeDomain
	if schema {
		kind, outcome = errs.ErrSchema, metrics.OutcomeSchema
	}
	msg := joinMessages(res.Messages)
	c.deps.Metrics.Submission("update", outcome)
	c.deps.Notifier.Notify(msg)
	p.enable()
	c.settle(Failed)
	return res, &MessageError{Msg: msg, Kind: kind}
}

func (p *ProfileForm) setLoading(on bool) {
	if p.button == nil {
		return
	}
	p.button.SetLoading(on)
	if on {
		p.button.SetEnabled(false)
	}
}

func (p *ProfileForm) enable() {
	if p.button != nil {
		p.button.SetEnabled(true)
	}
}

// IsMessage reports whether err is a user-facing mutation failure.
func IsMessage(err error) bool {
	var me *MessageError
	return errors.As(err, &me)
}
