package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/and161185/shop-account/internal/account"
	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/form"
)

const phoneField = "customer[phone]"

// constraints for the profile fields the storefront knows about.
// Any other customer[...] name is sent as plain text.
var profileConstraints = map[string]form.Constraint{
	"customer[firstName]": {Type: form.TypeText, MaxLength: 255},
	"customer[lastName]":  {Type: form.TypeText, MaxLength: 255},
	"customer[email]":     {Type: form.TypeEmail, Required: true},
	phoneField:            {Type: form.TypeTel},
}

func loginModel(action, email, password string) *form.Model {
	return form.New(action, "post",
		&form.Field{Name: "form_type", Value: "customer_login"},
		&form.Field{Name: "utf8", Value: "✓"},
		&form.Field{Name: account.LoginEmailField, Value: email, Constraint: form.Constraint{Type: form.TypeEmail, Required: true}},
		&form.Field{Name: account.LoginPasswordField, Value: password, Constraint: form.Constraint{Type: form.TypePassword, Required: true}},
	)
}

// parseFields turns repeated name=value flags into profile fields, in order.
// A bare name like "phone" is expanded to customer[phone].
func parseFields(args []string) ([]*form.Field, error) {
	fields := make([]*form.Field, 0, len(args))
	for _, s := range args {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("field %q: want name=value", s)
		}
		if !strings.Contains(name, "[") {
			name = "customer[" + name + "]"
		}
		fields = append(fields, &form.Field{Name: name, Value: value, Constraint: profileConstraints[name]})
	}
	return fields, nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the customer token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "read from stdin when empty", EnvVars: []string{"SHOPACCOUNT_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			password := c.String("password")
			if password == "" {
				if password, err = readPassword(c.App.Reader); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}

			ctx, cancel := withTimeout(c.Context)
			defer cancel()
			res := e.ctrl.NewLoginForm(loginModel(e.cfg.Routes.LoginAction, c.String("email"), password)).Submit(ctx)
			if !res.OK() {
				e.log.Info("login did not yield a token", zap.Strings("messages", res.Messages))
				return fmt.Errorf("login: %s", strings.Join(res.Messages, " and "))
			}
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "update the customer profile",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "field", Aliases: []string{"f"}, Usage: "name=value, repeatable", Required: true},
			&cli.StringFlag{Name: "dial-code", Usage: "country dial code for the phone field", Value: "61"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			fields, err := parseFields(c.StringSlice("field"))
			if err != nil {
				return err
			}
			btn := &button{}
			pf, err := e.ctrl.NewProfileForm(form.New("", "post", fields...), phoneField, c.String("dial-code"), btn)
			if err != nil {
				return err
			}
			// a disabled submit button cannot be pressed
			if !btn.enabled {
				return fmt.Errorf("update: form incomplete: %w", errs.ErrInvalidForm)
			}

			ctx, cancel := withTimeout(c.Context)
			defer cancel()
			if _, err := pf.Submit(ctx); err != nil {
				if account.IsMessage(err) || errors.Is(err, errs.ErrTransport) {
					return errReported
				}
				return fmt.Errorf("update: %w", err)
			}
			return nil
		},
	}
}
