// Package apperrors defines the error taxonomy the handlers translate into
// HTTP responses. Services return these instead of bare fmt.Errorf values so
// status codes survive the trip up the stack.
package apperrors

import (
	"errors"
	"net/http"
)

// Error carries an HTTP status alongside a client-safe message.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// InvalidCredentials covers wrong email/password and revoked sessions.
func InvalidCredentials(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "InvalidCredentials", Message: message}
}

// Unauthorized covers bad, expired or unknown tokens.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "Unauthorized", Message: message}
}

// Forbidden covers a missing/malformed Authorization header and failed role
// checks.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "Forbidden", Message: message}
}

// NotFound covers missing users or resources.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "NotFound", Message: message}
}

// BadRequest covers malformed or rejected input.
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "BadRequest", Message: message}
}

// InvalidResetToken covers a reset token that matches no user or has expired.
func InvalidResetToken() *Error {
	return &Error{Status: http.StatusBadRequest, Code: "InvalidOrExpiredToken", Message: "Token is invalid or expired"}
}

// EmailDelivery covers a failed outbound email after any partial state has
// been rolled back.
func EmailDelivery() *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    "EmailDeliveryFailed",
		Message: "There was an error sending the email. Try again later!",
	}
}

// Internal wraps unexpected store or codec failures.
func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "InternalError", Message: message}
}

// From extracts an *Error from err, or wraps it as Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("something went wrong")
}
