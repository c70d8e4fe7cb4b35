package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT and tokens
	ErrInvalidSigningMethod = errors.New("invalid token signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrTokenNotYetValid     = errors.New("token is not valid yet")
	ErrInvalidResetToken    = errors.New("Invalid token")

	// Authorization
	ErrEmptyAuthHeader    = errors.New("Not authorized to access this route")
	ErrInvalidAuthHeader  = errors.New("invalid authorization header format")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUnauthorized       = errors.New("Not authorized to access this route")
	ErrForbidden          = errors.New("User role is not authorized to access this route")
	ErrTooManyAttempts    = errors.New("Too many login attempts, try again later")

	// Request context
	ErrUserIDNotFoundInContext = errors.New("user id not found in request context")
	ErrUserNotFound            = errors.New("user not found")

	// General
	ErrNotFound   = errors.New("Resource not found")
	ErrBadRequest = errors.New("Bad request")
	ErrDuplicate  = errors.New("Duplicated field value entered")
	ErrInternal   = errors.New("Server Error")
)

// HttpError carries the status code and the message shown to the client.
// Err keeps the underlying cause for logs; it is never rendered.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]any
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]any) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, ErrBadRequest, nil)
}

func NewNotFoundError(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message, ErrNotFound, nil)
}

func NewUnauthorizedError(message string) *HttpError {
	return NewHttpError(http.StatusUnauthorized, message, ErrUnauthorized, nil)
}

func NewForbiddenError(message string) *HttpError {
	return NewHttpError(http.StatusForbidden, message, ErrForbidden, nil)
}

func NewInternalError(message string, err error) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message, err, nil)
}

// StatusFor maps sentinel errors to HTTP status codes. Unknown errors are 500.
func StatusFor(err error) int {
	var httpErr *HttpError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrDuplicate), errors.Is(err, ErrInvalidResetToken):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrInvalidSigningMethod),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenNotYetValid),
		errors.Is(err, ErrUserIDNotFoundInContext):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
