// Package entity defines the domain entities for the books feature.
package entity

import (
	"errors"
	"time"
)

const (
	// MinBorrowDays and MaxBorrowDays bound the length of a loan.
	MinBorrowDays = 1
	MaxBorrowDays = 365
)

var (
	// ErrNotAvailable is returned when borrowing a book that is already borrowed.
	ErrNotAvailable = errors.New("book is not available")

	// ErrInconsistentLoan is returned when availability and loan fields disagree.
	ErrInconsistentLoan = errors.New("book availability does not match its loan fields")
)

// Book is a catalogue entry. A book is either available, with no loan fields
// set, or borrowed by exactly one user until a due date.
type Book struct {
	// ID is a UUID string generated when the book is catalogued.
	ID string

	Title     string
	Author    string
	Publisher string
	Category  string

	// Available is false exactly while the book is on loan.
	Available bool

	// BorrowedBy is the id of the borrowing user, nil when available.
	BorrowedBy *string

	// BorrowedUntil is the due date (UTC midnight), nil when available.
	BorrowedUntil *time.Time

	// CreatedAt orders listings.
	CreatedAt time.Time
}

// Filter narrows the available-book listing. Empty fields match everything;
// non-empty fields match case-insensitive substrings.
type Filter struct {
	Publisher string
	Category  string
}

// Borrow moves the book from Available to Borrowed.
func (b *Book) Borrow(userID string, until time.Time) error {
	if !b.Available {
		return ErrNotAvailable
	}
	due := DateOf(until)
	b.Available = false
	b.BorrowedBy = &userID
	b.BorrowedUntil = &due
	return nil
}

// CheckInvariants reports whether availability and loan fields agree.
func (b *Book) CheckInvariants() error {
	onLoan := b.BorrowedBy != nil && b.BorrowedUntil != nil
	free := b.BorrowedBy == nil && b.BorrowedUntil == nil
	if b.Available && free {
		return nil
	}
	if !b.Available && onLoan {
		return nil
	}
	return ErrInconsistentLoan
}

// ValidBorrowDays reports whether days is an allowed loan length.
func ValidBorrowDays(days int) bool {
	return days >= MinBorrowDays && days <= MaxBorrowDays
}

// DueDate is the calendar day `days` days after now, in UTC.
func DueDate(now time.Time, days int) time.Time {
	return DateOf(now).AddDate(0, 0, days)
}

// DateOf truncates t to midnight UTC of its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
