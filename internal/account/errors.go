package account

import (
	"github.com/and161185/shop-account/internal/model"
)

// Generic user-facing notices.
const (
	MsgUpdateUnavailable = "Unable to update your account. Please try again."
)

// MessageError is a failed mutation rendered for the user.
// It unwraps to errs.ErrSchema or errs.ErrDomainValidation.
type MessageError struct {
	Msg  string
	Kind error
}

func (e *MessageError) Error() string { return e.Msg }

func (e *MessageError) Unwrap() error { return e.Kind }

// interpret folds the two error channels of a mutation into one result.
// Top-level errors come first, then the payload's user errors; a missing
// payload without any messages is treated as a generic failure.
func interpret[T any](gql []model.GraphQLError, userErrs []model.UserError, payload *T) (model.MutationResult[T], bool) {
	msgs := make([]string, 0, len(gql)+len(userErrs))
	for _, e := range gql {
		msgs = append(msgs, e.Message)
	}
	for _, e := range userErrs {
		msgs = append(msgs, e.Message)
	}
	if len(msgs) > 0 {
		return model.Failed[T](msgs...), len(gql) > 0
	}
	if payload == nil {
		return model.Failed[T](), false
	}
	return model.Succeeded(payload), false
}
