// Package usecase implements the business logic for the users feature.
package usecase

import "library_api/internal/shared/apperr"

var (
	// ErrEmailAlreadyExists is returned when registering an email that is already taken.
	ErrEmailAlreadyExists = apperr.New(apperr.KindConflict, "users.create", "User with this email already exists")
)
