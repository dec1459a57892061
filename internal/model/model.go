// Package model defines domain entities shared by the stores, the storefront client and the controller.
package model

import (
	"time"
)

// SessionTokenName is the key the customer credential is stored under.
const SessionTokenName = "customerAccessToken"

// SessionToken is the client-held customer credential.
type SessionToken struct {
	Value     string
	ExpiresAt time.Time // zero means no expiry horizon (session credential)
}

// Valid reports whether the token can be sent at instant now.
func (t SessionToken) Valid(now time.Time) bool {
	if t.Value == "" {
		return false
	}
	return t.ExpiresAt.IsZero() || now.Before(t.ExpiresAt)
}

// FormPayload is the nested structure built from bracket-notation field names.
// Nested levels are FormPayload values, leaves are strings.
type FormPayload map[string]any

// PhoneRecord is a raw user-entered phone plus the selected country dial code.
type PhoneRecord struct {
	Raw      string
	DialCode string // digits only, no leading '+'
}

// MutationResult is the interpreted outcome of a storefront mutation:
// either a payload or a non-empty list of user-facing messages.
type MutationResult[T any] struct {
	Payload  *T
	Messages []string
}

const genericFailure = "Something went wrong. Please try again."

// Succeeded builds a success result.
func Succeeded[T any](p *T) MutationResult[T] {
	return MutationResult[T]{Payload: p}
}

// Failed builds a failure result; an empty message list gets a generic message.
func Failed[T any](msgs ...string) MutationResult[T] {
	if len(msgs) == 0 {
		msgs = []string{genericFailure}
	}
	return MutationResult[T]{Messages: msgs}
}

// OK reports whether the result is a success.
func (r MutationResult[T]) OK() bool { return len(r.Messages) == 0 && r.Payload != nil }

// ValidationState is the per-field validity plus the derived whole-form flags.
type ValidationState struct {
	Fields map[string]bool
	Filled bool
	Valid  bool
}

// SubmitEnabled is the derived whole-form flag.
func (s ValidationState) SubmitEnabled() bool { return s.Filled && s.Valid }

// Customer is the storefront customer as returned by customerUpdate.
type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// CustomerAccessToken is the credential issued by customerAccessTokenCreate.
type CustomerAccessToken struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// UserError is a domain validation error reported inside a mutation payload.
type UserError struct {
	Code    string   `json:"code,omitempty"`
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// GraphQLError is a top-level schema/transport error entry.
type GraphQLError struct {
	Message string `json:"message"`
}
