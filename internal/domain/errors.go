package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
)

// TransitionError reports a rejected order status change together with the
// status the order was in at the time.
type TransitionError struct {
	Event  string
	From   string
	To     string
	Reason string
}

func (e *TransitionError) Error() string {
	var msg string
	switch {
	case e.Event == EventCancel:
		msg = fmt.Sprintf("order cannot be cancelled. current status: %s", e.From)
	case e.Event == EventUpdate:
		msg = fmt.Sprintf("order cannot be updated. current status: %s", e.From)
	case e.To != "":
		msg = fmt.Sprintf("order cannot move from %s to %s", e.From, e.To)
	default:
		msg = fmt.Sprintf("order cannot %s. current status: %s", e.Event, e.From)
	}
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
