// Package dto はbooksフィーチャーのHTTPリクエスト/レスポンスDTOとマッパーを提供します。
package dto

import (
	"fmt"

	"github.com/oapi-codegen/runtime/types"

	"library_api/internal/feature/books/domain/entity"
)

// BookResponse は本のレスポンスDTOです。レプリケーションのペイロードにも使用します。
type BookResponse struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Publisher     string      `json:"publisher"`
	Category      string      `json:"category"`
	Available     bool        `json:"available"`
	BorrowedBy    *string     `json:"borrowed_by"`
	BorrowedUntil *types.Date `json:"borrowed_until"` // YYYY-MM-DD
}

// BorrowResponse は貸出成功時のレスポンスです。
type BorrowResponse struct {
	Message       string     `json:"message"`
	BorrowedUntil types.Date `json:"borrowed_until"`
}

// FromBook はエンティティをレスポンスDTOに変換します。
func FromBook(b entity.Book) BookResponse {
	out := BookResponse{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Publisher:  b.Publisher,
		Category:   b.Category,
		Available:  b.Available,
		BorrowedBy: b.BorrowedBy,
	}
	if b.BorrowedUntil != nil {
		out.BorrowedUntil = &types.Date{Time: entity.DateOf(*b.BorrowedUntil)}
	}
	return out
}

// FromBooks は本の一覧をレスポンスDTOに変換します。nilの場合も空配列を返します。
func FromBooks(books []entity.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, FromBook(b))
	}
	return out
}

// NewBorrowResponse は貸出後の本から貸出成功レスポンスを生成します。
func NewBorrowResponse(b entity.Book) BorrowResponse {
	var due types.Date
	if b.BorrowedUntil != nil {
		due = types.Date{Time: entity.DateOf(*b.BorrowedUntil)}
	}
	return BorrowResponse{
		Message:       fmt.Sprintf("Book borrowed until %s", due.Format(types.DateFormat)),
		BorrowedUntil: due,
	}
}
