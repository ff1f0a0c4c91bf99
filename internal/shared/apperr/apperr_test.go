package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "op and message", err: New(KindNotFound, "books.get", "Book not found"), want: "books.get: Book not found"},
		{name: "kind only", err: &Error{Kind: KindConflict}, want: "conflict"},
		{name: "with cause", err: &Error{Kind: KindInternal, Op: "db", Cause: errors.New("boom")}, want: "db: internal: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	sentinel := New(KindConflict, "users.create", "User with this email already exists")
	wrapped := fmt.Errorf("create user: %w", sentinel)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, sentinel)
	assert.True(t, Is(wrapped, KindConflict))
	assert.False(t, Is(nil, KindConflict))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Wrap(KindInternal, "op", nil))

	cause := errors.New("connection refused")
	err := Wrap(KindUpstreamUnavailable, "replication.deliver", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindUpstreamUnavailable, KindOf(err))
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	inner := New(KindNotFound, "books.get", "Book not found")
	outer := Wrap(KindNotFound, "books.borrow", inner)

	assert.Equal(t, "Book not found", PublicMessage(outer))
	assert.Equal(t, "", PublicMessage(errors.New("plain")))
	assert.Equal(t, "Days must be between 1 and 365", PublicMessage(NewField("op", "days", "Days must be between 1 and 365")))
}
