package chat

import "errors"

// Sentinel errors for the conversation service. Handlers map these to HTTP
// statuses; the websocket layer maps them to error events carrying the codes
// below.
var (
	ErrValidation      = errors.New("invalid input")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("not a participant of this conversation")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrInternal        = errors.New("internal error")
)

// Stable error codes exposed in API responses and socket error events.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthenticated = "AUTHENTICATION_ERROR"
	CodeForbidden       = "AUTHORIZATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidState    = "INVALID_STATE"
	CodeInternal        = "INTERNAL_ERROR"
)

// CodeFor returns the stable code for a service error.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	default:
		return CodeInternal
	}
}
