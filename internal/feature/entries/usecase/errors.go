// Package usecase implements the business logic for the entries feature.
package usecase

import "errors"

var (
	// ErrEntryNotFound is returned when no entry has the requested ID.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrForbidden is returned when the entry exists but belongs to another user.
	ErrForbidden = errors.New("not authorized to access this entry")
)
