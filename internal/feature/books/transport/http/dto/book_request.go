package dto

import (
	"github.com/oapi-codegen/runtime/types"

	"library_api/internal/feature/books/domain/entity"
)

// CreateBookRequest は本の登録リクエストです。
type CreateBookRequest struct {
	Title     string `json:"title" binding:"required,max=200"`
	Author    string `json:"author" binding:"required,max=100"`
	Publisher string `json:"publisher" binding:"required,max=100"`
	Category  string `json:"category" binding:"required,max=50"`
}

// BorrowRequest は貸出リクエストです。daysは整数のみ受け付けます。
type BorrowRequest struct {
	UserID string `json:"user_id" binding:"required,max=36"`
	Days   *int   `json:"days" binding:"required,min=1,max=365"`
}

// SyncBookRequest はFrontendから届く本の完全な状態です。
type SyncBookRequest struct {
	ID            string      `json:"id" binding:"required,max=36"`
	Title         string      `json:"title" binding:"required,max=200"`
	Author        string      `json:"author" binding:"required,max=100"`
	Publisher     string      `json:"publisher" binding:"required,max=100"`
	Category      string      `json:"category" binding:"required,max=50"`
	Available     *bool       `json:"available" binding:"required"`
	BorrowedBy    *string     `json:"borrowed_by" binding:"omitempty,max=36"`
	BorrowedUntil *types.Date `json:"borrowed_until"`
}

// ToEntity はリクエストをエンティティに変換します。不変条件の検証はusecaseが行います。
func (r SyncBookRequest) ToEntity() entity.Book {
	b := entity.Book{
		ID:         r.ID,
		Title:      r.Title,
		Author:     r.Author,
		Publisher:  r.Publisher,
		Category:   r.Category,
		Available:  *r.Available,
		BorrowedBy: r.BorrowedBy,
	}
	if r.BorrowedUntil != nil {
		due := entity.DateOf(r.BorrowedUntil.Time)
		b.BorrowedUntil = &due
	}
	return b
}

// DeleteBookRequest は本の削除通知です。
type DeleteBookRequest struct {
	ID string `json:"id" binding:"required,max=36"`
}
