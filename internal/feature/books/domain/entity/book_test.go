package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// TestBook_Borrow は貸出可能な本のみ貸出状態へ遷移できることを検証します。
func TestBook_Borrow(t *testing.T) {
	t.Parallel()

	until := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("available book becomes borrowed", func(t *testing.T) {
		t.Parallel()

		b := &Book{ID: "b-1", Available: true}
		require.NoError(t, b.CheckInvariants())

		require.NoError(t, b.Borrow("u-1", until))

		assert.False(t, b.Available)
		require.NotNil(t, b.BorrowedBy)
		assert.Equal(t, "u-1", *b.BorrowedBy)
		require.NotNil(t, b.BorrowedUntil)
		assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *b.BorrowedUntil)
		assert.NoError(t, b.CheckInvariants())
	})

	t.Run("borrowed book is rejected and unchanged", func(t *testing.T) {
		t.Parallel()

		due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		b := &Book{ID: "b-1", Available: false, BorrowedBy: ptr("u-1"), BorrowedUntil: &due}

		err := b.Borrow("u-2", until)

		assert.ErrorIs(t, err, ErrNotAvailable)
		assert.Equal(t, "u-1", *b.BorrowedBy)
		assert.Equal(t, due, *b.BorrowedUntil)
		assert.NoError(t, b.CheckInvariants())
	})
}

// TestBook_CheckInvariants は貸出状態と貸出フィールドの整合性チェックを検証します。
func TestBook_CheckInvariants(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		book    Book
		wantErr bool
	}{
		{"available without loan", Book{Available: true}, false},
		{"borrowed with loan", Book{Available: false, BorrowedBy: ptr("u-1"), BorrowedUntil: &due}, false},
		{"available with borrower", Book{Available: true, BorrowedBy: ptr("u-1")}, true},
		{"available with due date", Book{Available: true, BorrowedUntil: &due}, true},
		{"borrowed without loan", Book{Available: false}, true},
		{"borrowed without due date", Book{Available: false, BorrowedBy: ptr("u-1")}, true},
		{"borrowed without borrower", Book{Available: false, BorrowedUntil: &due}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.book.CheckInvariants()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInconsistentLoan)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidBorrowDays(t *testing.T) {
	t.Parallel()

	for days, want := range map[int]bool{-1: false, 0: false, 1: true, 14: true, 365: true, 366: false} {
		assert.Equal(t, want, ValidBorrowDays(days), "days=%d", days)
	}
}

// TestDueDate は返却期限がUTCの日付単位で計算されることを検証します。
func TestDueDate(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name string
		now  time.Time
		days int
		want time.Time
	}{
		{"same day utc", time.Date(2026, 1, 30, 23, 59, 0, 0, time.UTC), 7, time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)},
		{"non utc input uses utc day", time.Date(2026, 1, 31, 8, 0, 0, 0, tokyo), 1, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"leap year", time.Date(2028, 2, 28, 12, 0, 0, 0, time.UTC), 1, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"one year", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 365, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DueDate(tt.now, tt.days))
		})
	}
}
