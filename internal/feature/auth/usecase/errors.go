// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email, a wrong
	// password or an inactive account alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPasswordTooLong is returned by Signup when the password exceeds the
	// bcrypt input limit of 72 bytes.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)
