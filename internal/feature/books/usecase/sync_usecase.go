package usecase

import (
	"context"
	"errors"
	"fmt"

	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/platform/metrics"
)

// SyncUsecase はFrontendから届いた本の状態をBackendの読み取りモデルへ反映します。
// 同じペイロードを複数回適用しても結果は1件です。
type SyncUsecase struct {
	books   BookSyncRepository
	metrics *metrics.Metrics
}

// NewSyncUsecase はSyncUsecaseの新しいインスタンスを生成します。mはnilでも構いません。
func NewSyncUsecase(books BookSyncRepository, m *metrics.Metrics) *SyncUsecase {
	return &SyncUsecase{books: books, metrics: m}
}

// ApplyUpsert はIDで本を更新または挿入します。
// 貸出状態と貸出フィールドが矛盾する場合はErrInconsistentBookを返します。
func (u *SyncUsecase) ApplyUpsert(ctx context.Context, book *entity.Book) error {
	if err := book.CheckInvariants(); err != nil {
		if errors.Is(err, entity.ErrInconsistentLoan) {
			return ErrInconsistentBook
		}
		return err
	}
	if err := u.books.Upsert(ctx, book); err != nil {
		return fmt.Errorf("upsert book %s: %w", book.ID, err)
	}
	u.record("book.upserted")
	return nil
}

// ApplyDelete はIDで本を削除します。未知のIDは何もせず成功します。
func (u *SyncUsecase) ApplyDelete(ctx context.Context, id string) error {
	if _, err := u.books.DeleteIfExists(ctx, id); err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	u.record("book.deleted")
	return nil
}

func (u *SyncUsecase) record(kind string) {
	if u.metrics == nil {
		return
	}
	u.metrics.IngestedTotal.WithLabelValues(kind).Inc()
}
