package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a document is not found
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateEmail is returned when a user with the email already exists
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateName is returned when a user with the name already exists
	ErrDuplicateName = errors.New("user with this name already exists")

	// ErrDuplicateToken is returned when a refresh token record already
	// exists for the user
	ErrDuplicateToken = errors.New("refresh token for this user already exists")
)
