package domain

import "fmt"

// ValidationError rejects caller-supplied input that fails a
// precondition: empty cart, unknown or inactive product, insufficient
// stock, invalid address. Never retried automatically.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError covers both "doesn't exist" and "belongs to someone
// else" with one message, so callers can't probe for existence.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// InvalidStateError rejects an operation the current status forbids,
// e.g. cancelling a shipped order or paying a paid one.
type InvalidStateError struct {
	Operation string
	Status    OrderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s order in status %s", e.Operation, e.Status)
}

// InvalidTransitionError rejects an illegal fulfillment status jump,
// naming both the current and the attempted status.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// AuthenticationError marks a webhook whose signature did not verify.
// The payload is never processed.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string { return e.Reason }
