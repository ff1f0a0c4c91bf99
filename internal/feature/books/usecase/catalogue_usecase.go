package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"library_api/internal/feature/books/domain/entity"
)

// BookEvents はコミット済みの変更をレプリケーション先へ通知します。
// 実装はブロックしてはならず、配送失敗を返しません。
type BookEvents interface {
	Upserted(ctx context.Context, book entity.Book)
	Deleted(ctx context.Context, id string)
}

// QueryUsecase はカタログの参照系ユースケースです。FrontendとBackendの両方で使用します。
type QueryUsecase struct {
	books BookReader
}

// NewQueryUsecase はQueryUsecaseの新しいインスタンスを生成します。
func NewQueryUsecase(books BookReader) *QueryUsecase {
	return &QueryUsecase{books: books}
}

// Get はIDで本を取得します。貸出中の本も返します。
func (u *QueryUsecase) Get(ctx context.Context, id string) (*entity.Book, error) {
	return u.books.FindByID(ctx, id)
}

// ListAvailable は貸出可能な本を出版社・カテゴリで絞り込んで返します。
func (u *QueryUsecase) ListAvailable(ctx context.Context, filter entity.Filter) ([]entity.Book, error) {
	filter.Publisher = strings.TrimSpace(filter.Publisher)
	filter.Category = strings.TrimSpace(filter.Category)
	return u.books.ListAvailable(ctx, filter)
}

// ListUnavailable は貸出中の本を返します。
func (u *QueryUsecase) ListUnavailable(ctx context.Context) ([]entity.Book, error) {
	return u.books.ListUnavailable(ctx)
}

// CreateBookInput は新しい本の入力値です。
type CreateBookInput struct {
	Title     string
	Author    string
	Publisher string
	Category  string
}

// CatalogueUsecase はFrontendのカタログ管理ユースケースです。参照系はQueryUsecaseを埋め込みます。
type CatalogueUsecase struct {
	*QueryUsecase
	books  BookRepository
	events BookEvents
	newID  func() string
	now    Clock
}

// NewCatalogueUsecase はCatalogueUsecaseの新しいインスタンスを生成します。
func NewCatalogueUsecase(books BookRepository, events BookEvents) *CatalogueUsecase {
	return &CatalogueUsecase{
		QueryUsecase: NewQueryUsecase(books),
		books:        books,
		events:       events,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// Create は貸出可能な状態で本を登録し、レプリケーション先へ通知します。
func (u *CatalogueUsecase) Create(ctx context.Context, in CreateBookInput) (*entity.Book, error) {
	book := &entity.Book{
		ID:        u.newID(),
		Title:     in.Title,
		Author:    in.Author,
		Publisher: in.Publisher,
		Category:  in.Category,
		Available: true,
		CreatedAt: u.now().UTC(),
	}
	if err := u.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	u.events.Upserted(ctx, *book)
	return book, nil
}

// Delete は本を削除し、レプリケーション先へ通知します。
// 存在しない場合はErrBookNotFoundを返します（2回目の削除も同様）。
func (u *CatalogueUsecase) Delete(ctx context.Context, id string) error {
	if err := u.books.Delete(ctx, id); err != nil {
		return err
	}
	u.events.Deleted(ctx, id)
	return nil
}
