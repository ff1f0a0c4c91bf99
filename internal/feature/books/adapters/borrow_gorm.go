package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/books/usecase"
)

// borrowGorm はBorrowStoreのgorm実装です。
type borrowGorm struct {
	db *gorm.DB
}

var _ usecase.BorrowStore = (*borrowGorm)(nil)

// NewBorrowStore は指定されたDB接続でborrowGormの新しいインスタンスを生成します。
func NewBorrowStore(db *gorm.DB) *borrowGorm {
	return &borrowGorm{db: db}
}

// InTx はfnを単一のトランザクションで実行します。fnがエラーを返すとロールバックします。
func (s *borrowGorm) InTx(ctx context.Context, fn func(tx usecase.BorrowTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&borrowTx{db: tx})
	})
}

type borrowTx struct {
	db *gorm.DB
}

// LockBook はSELECT ... FOR UPDATEで本を取得します。SQLiteではロック句は無視され、書き込みが直列化されます。
func (t *borrowTx) LockBook(ctx context.Context, id string) (*entity.Book, error) {
	var m BookModel
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrBookNotFound
		}
		return nil, err
	}
	b := m.ToEntity()
	return &b, nil
}

// UserExists はusersテーブルに利用者が存在するかを返します。
func (t *borrowTx) UserExists(ctx context.Context, userID string) (bool, error) {
	var n int64
	if err := t.db.WithContext(ctx).Table("users").Where("id = ?", userID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkBorrowed は貸出可能な行に限り貸出フィールドを更新します。
// 更新行数が0の場合は競合に負けたものとしてfalseを返します。
func (t *borrowTx) MarkBorrowed(ctx context.Context, b *entity.Book) (bool, error) {
	if b.BorrowedBy == nil || b.BorrowedUntil == nil {
		return false, entity.ErrInconsistentLoan
	}
	res := t.db.WithContext(ctx).
		Model(&BookModel{}).
		Where("id = ? AND available = ?", b.ID, true).
		Updates(map[string]any{
			"available":      false,
			"borrowed_by":    *b.BorrowedBy,
			"borrowed_until": entity.DateOf(*b.BorrowedUntil),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
