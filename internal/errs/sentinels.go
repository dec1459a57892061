// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across client/store/controller layers.
var (
	// ErrTransport indicates the storefront request failed below the GraphQL layer
	// (network failure, non-2xx status or a body that is not valid JSON).
	ErrTransport = errors.New("storefront transport failure")

	// ErrSchema indicates the storefront answered with a top-level `errors` array
	// (malformed query, rejected access token).
	ErrSchema = errors.New("storefront schema error")

	// ErrDomainValidation indicates a non-empty userErrors/customerUserErrors list.
	ErrDomainValidation = errors.New("domain validation failed")

	// ErrNotFound indicates there is no stored session for the profile.
	ErrNotFound = errors.New("not found")

	// ErrInvalidForm indicates a form failed its native validity check before submit.
	ErrInvalidForm = errors.New("invalid form")

	// ErrInvalidDialCode indicates an empty or non-numeric country dial code.
	ErrInvalidDialCode = errors.New("invalid dial code")

	// ErrNoToken indicates no session token is present (unauthenticated state).
	ErrNoToken = errors.New("no session token")
)
