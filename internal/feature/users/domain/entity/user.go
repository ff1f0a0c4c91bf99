// Package entity defines the domain entities for the users feature.
package entity

import (
	"time"

	bookentity "library_api/internal/feature/books/domain/entity"
)

// User is a registered library member.
type User struct {
	// ID is a UUID string generated when the user registers.
	ID string

	// Email is unique across all users.
	Email string

	FirstName string
	LastName  string

	// CreatedAt orders listings.
	CreatedAt time.Time

	// BorrowedBooks are the books currently on loan to the user.
	// Only populated by listing queries.
	BorrowedBooks []bookentity.Book
}

// HasBorrowedBooks reports whether the user currently holds at least one book.
func (u *User) HasBorrowedBooks() bool {
	return len(u.BorrowedBooks) > 0
}
