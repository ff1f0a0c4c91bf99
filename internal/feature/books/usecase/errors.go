// Package usecase implements the business logic for the books feature.
package usecase

import (
	"fmt"

	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/shared/apperr"
)

var (
	// ErrBookNotFound is returned when no book has the requested id.
	ErrBookNotFound = apperr.New(apperr.KindNotFound, "books", "Book not found")

	// ErrBookNotAvailable is returned when borrowing a book that is already on loan.
	ErrBookNotAvailable = apperr.New(apperr.KindConflict, "books.borrow", "Book not available for borrowing")

	// ErrUserNotFound is returned when the borrower does not exist.
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "books.borrow", "User not found")

	// ErrInvalidBorrowDays is returned when the loan length is outside the allowed range.
	ErrInvalidBorrowDays = apperr.NewField("books.borrow", "days",
		fmt.Sprintf("Days must be between %d and %d", entity.MinBorrowDays, entity.MaxBorrowDays))

	// ErrInconsistentBook is returned when an ingested book breaks the loan invariant.
	ErrInconsistentBook = apperr.NewField("books.sync", "available",
		"Available must be false exactly when borrowed_by and borrowed_until are set")
)
