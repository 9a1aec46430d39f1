package booking

import (
	"errors"
	"fmt"
)

// FlowErrorKind classifies booking flow failures for transport mapping.
type FlowErrorKind string

const (
	// KindValidation: local guard failed (past date, missing slot, wrong role).
	KindValidation FlowErrorKind = "validation"
	// KindConflict: the transition is not legal from the session's state.
	KindConflict FlowErrorKind = "conflict"
	// KindFetch: the availability lookup failed.
	KindFetch FlowErrorKind = "fetch"
	// KindSubmission: the booking submission was rejected or unreachable.
	KindSubmission FlowErrorKind = "submission"
	// KindPayment: the payment gateway failed or returned no redirect URL.
	// The only kind requiring explicit user acknowledgment.
	KindPayment FlowErrorKind = "payment"
)

// FlowError is a classified, user-presentable booking flow failure.
type FlowError struct {
	Kind    FlowErrorKind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error { return e.Err }

func newFlowError(kind FlowErrorKind, msg string, cause error) *FlowError {
	return &FlowError{Kind: kind, Message: msg, Err: cause}
}

// ErrorKind extracts the FlowErrorKind from err, or "" if err is not a
// FlowError.
func ErrorKind(err error) FlowErrorKind {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
