package repository

import "errors"

var (
	// ErrNotFound signals that a record does not exist or has been soft-deleted
	ErrNotFound = errors.New("record not found")

	// ErrConflict signals a uniqueness violation (duplicate username or email)
	ErrConflict = errors.New("record already exists")

	// ErrInvalidCredentials is returned for any failed authentication,
	// whether the username is unknown or the password is wrong
	ErrInvalidCredentials = errors.New("invalid credentials")
)
