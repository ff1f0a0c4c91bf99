// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"time"

	bookadapters "library_api/internal/feature/books/adapters"
	bookentity "library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/users/domain/entity"
)

// UserModel はusersテーブルの行です。BorrowedBooksはbooks.borrowed_byで関連付けます。
type UserModel struct {
	ID            string                   `gorm:"primaryKey;size:36"`
	Email         string                   `gorm:"size:120;not null;uniqueIndex"`
	FirstName     string                   `gorm:"size:50;not null"`
	LastName      string                   `gorm:"size:50;not null"`
	CreatedAt     time.Time                `gorm:"not null;index"`
	UpdatedAt     time.Time
	BorrowedBooks []bookadapters.BookModel `gorm:"foreignKey:BorrowedBy;references:ID"`
}

func (UserModel) TableName() string {
	return "users"
}

func toModel(u *entity.User) UserModel {
	return UserModel{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func (m UserModel) toEntity() entity.User {
	books := make([]bookentity.Book, 0, len(m.BorrowedBooks))
	for _, b := range m.BorrowedBooks {
		books = append(books, b.ToEntity())
	}
	return entity.User{
		ID:            m.ID,
		Email:         m.Email,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		CreatedAt:     m.CreatedAt.UTC(),
		BorrowedBooks: books,
	}
}
