package domain

import "errors"

// Sentinel errors shared across repositories and services. Controllers
// translate these into HTTP status codes; anything else becomes a
// generic 500 without leaking internals.
var (
	// ErrNotFound is returned when an event or booking does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEventUnavailable is returned when booking against an event whose
	// status is not active.
	ErrEventUnavailable = errors.New("event is not available for booking")

	// ErrRegistrationClosed is returned when booking after the event's
	// registration closing date.
	ErrRegistrationClosed = errors.New("registration has closed for this event")

	// ErrInsufficientCapacity is returned when a booking would push the
	// attendee count past the event capacity.
	ErrInsufficientCapacity = errors.New("not enough spots available")

	// ErrPaymentFailed is returned when the payment gateway declines a charge.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrDuplicateIdentifier is returned when a generated ticket or payment
	// identifier collides with an existing one. The booking service retries
	// generation once before surfacing the error.
	ErrDuplicateIdentifier = errors.New("duplicate ticket or payment identifier")

	// ErrInvalidCredentials is returned on a failed admin login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports bad input shape or range. Controllers surface
// the message verbatim with a 400 status.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
