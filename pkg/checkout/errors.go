package checkout

import (
	"context"
	"errors"
)

// ErrBusy is returned by Submit while a previous submission is in flight or
// its confirmation is still being shown.
var ErrBusy = errors.New("checkout: submission in progress")

// ValidationError reports a cart that cannot be submitted. It is raised
// before any order is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "checkout: " + e.Message
}

// Fields named by a ValidationError.
const (
	// FieldTableNumber is reported when the table number is empty or blank.
	FieldTableNumber = "tableNumber"
	// FieldItems is reported when there is nothing to order.
	FieldItems = "items"
)

// SubmissionError wraps a failed attempt to place the order. The cart is left
// as it was, so the guest can retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "checkout: submit order: " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the order service did not answer in time.
func (e *SubmissionError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}
