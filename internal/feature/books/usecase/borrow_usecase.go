package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/platform/metrics"
	"library_api/internal/shared/apperr"
)

// BorrowUsecase は本の貸出ワークフローを実装します。
// 判定と更新は単一トランザクション内で行い、同時に貸出を試みた場合は1件のみ成功します。
type BorrowUsecase struct {
	store   BorrowStore
	events  BookEvents
	now     Clock
	metrics *metrics.Metrics
}

// NewBorrowUsecase はBorrowUsecaseの新しいインスタンスを生成します。
// nowがnilの場合はtime.Nowを使用します。mはnilでも構いません。
func NewBorrowUsecase(store BorrowStore, events BookEvents, now Clock, m *metrics.Metrics) *BorrowUsecase {
	if now == nil {
		now = time.Now
	}
	return &BorrowUsecase{store: store, events: events, now: now, metrics: m}
}

// Borrow はuserIDの利用者にdays日間bookIDの本を貸し出し、貸出後の本を返します。
//
//   - daysが範囲外: ErrInvalidBorrowDays
//   - 本が存在しない: ErrBookNotFound
//   - 貸出中: ErrBookNotAvailable
//   - 利用者が存在しない: ErrUserNotFound
func (u *BorrowUsecase) Borrow(ctx context.Context, bookID, userID string, days int) (*entity.Book, error) {
	if !entity.ValidBorrowDays(days) {
		u.record(metrics.BorrowInvalid)
		return nil, ErrInvalidBorrowDays
	}
	until := entity.DueDate(u.now(), days)

	var borrowed *entity.Book
	err := u.store.InTx(ctx, func(tx BorrowTx) error {
		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if !book.Available {
			return ErrBookNotAvailable
		}

		ok, err := tx.UserExists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		if err := book.Borrow(userID, until); err != nil {
			if errors.Is(err, entity.ErrNotAvailable) {
				return ErrBookNotAvailable
			}
			return err
		}

		won, err := tx.MarkBorrowed(ctx, book)
		if err != nil {
			return err
		}
		if !won {
			return ErrBookNotAvailable
		}
		borrowed = book
		return nil
	})
	if err != nil {
		u.record(outcome(err))
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("borrow book %s: %w", bookID, err)
	}

	u.record(metrics.BorrowSucceeded)
	u.events.Upserted(ctx, *borrowed)
	return borrowed, nil
}

func (u *BorrowUsecase) record(result string) {
	if u.metrics == nil {
		return
	}
	u.metrics.BorrowsTotal.WithLabelValues(result).Inc()
}

func outcome(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindConflict:
		return metrics.BorrowUnavailable
	case apperr.KindNotFound:
		return metrics.BorrowNotFound
	case apperr.KindValidation:
		return metrics.BorrowInvalid
	default:
		return metrics.BorrowError
	}
}
