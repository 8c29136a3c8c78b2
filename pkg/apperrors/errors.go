package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports bad input. Requests failing validation produce no
// side effects.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation creates a validation error with a formatted message.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing referenced record (ticket type, event,
// booking).
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InsufficientInventoryError is a business-rule conflict, not a failure: the
// requested quantity exceeds what is left. Available carries the actual
// remaining count so the caller can report it verbatim.
type InsufficientInventoryError struct {
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("Only %d tickets available", e.Available)
}

// HostResolutionError is a data-integrity failure: a booking cannot be
// attributed to a host. Callers must abort rather than silently skip
// analytics for the booking.
type HostResolutionError struct {
	BookingID string
	EventID   string
}

func (e *HostResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve host for booking %s (event %s)", e.BookingID, e.EventID)
}

// TransientStoreError wraps store contention or connectivity failures. The
// wrapped operation is safe to retry from the top: it fails cleanly with no
// partial writes.
type TransientStoreError struct {
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("transient store error: %v", e.Err)
}

func (e *TransientStoreError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInsufficientInventory(err error) bool {
	var target *InsufficientInventoryError
	return errors.As(err, &target)
}

func IsHostResolution(err error) bool {
	var target *HostResolutionError
	return errors.As(err, &target)
}

// HTTPStatus maps the error taxonomy onto HTTP status codes. The inventory
// conflict keeps its 409 identity and is never collapsed into a generic 500.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsInsufficientInventory(err):
		return http.StatusConflict
	case IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the message shown to end users. Inventory conflicts are
// reported verbatim with the remaining count; everything else degrades to a
// generic message so internals do not leak.
func UserMessage(err error) string {
	switch {
	case IsValidation(err), IsInsufficientInventory(err), IsNotFound(err):
		return err.Error()
	default:
		return "failed to create booking"
	}
}
