// Package adapters はbooksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"time"

	"library_api/internal/feature/books/domain/entity"
)

// BookModel はbooksテーブルの行です。
// availableにはdefaultタグを付けません。gormはゼロ値(false)の列を省略してデフォルト値を使うためです。
type BookModel struct {
	ID            string     `gorm:"primaryKey;size:36"`
	Title         string     `gorm:"size:200;not null"`
	Author        string     `gorm:"size:100;not null"`
	Publisher     string     `gorm:"size:100;not null;index"`
	Category      string     `gorm:"size:50;not null;index"`
	Available     bool       `gorm:"not null;index"`
	BorrowedBy    *string    `gorm:"size:36;index"`
	BorrowedUntil *time.Time `gorm:"type:date"`
	CreatedAt     time.Time  `gorm:"not null;index"`
	UpdatedAt     time.Time
}

func (BookModel) TableName() string {
	return "books"
}

// ToModel はエンティティを行に変換します。
func ToModel(b *entity.Book) BookModel {
	m := BookModel{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Publisher:  b.Publisher,
		Category:   b.Category,
		Available:  b.Available,
		BorrowedBy: b.BorrowedBy,
		CreatedAt:  b.CreatedAt,
	}
	if b.BorrowedUntil != nil {
		due := entity.DateOf(*b.BorrowedUntil)
		m.BorrowedUntil = &due
	}
	return m
}

// ToEntity は行をエンティティに変換します。
func (m BookModel) ToEntity() entity.Book {
	b := entity.Book{
		ID:         m.ID,
		Title:      m.Title,
		Author:     m.Author,
		Publisher:  m.Publisher,
		Category:   m.Category,
		Available:  m.Available,
		BorrowedBy: m.BorrowedBy,
		CreatedAt:  m.CreatedAt.UTC(),
	}
	if m.BorrowedUntil != nil {
		due := entity.DateOf(*m.BorrowedUntil)
		b.BorrowedUntil = &due
	}
	return b
}

func toEntities(rows []BookModel) []entity.Book {
	out := make([]entity.Book, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToEntity())
	}
	return out
}
