package adapters

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/books/usecase"
)

// bookGorm はBookRepositoryとBookSyncRepositoryのgorm実装です。
type bookGorm struct {
	db *gorm.DB
}

var (
	_ usecase.BookRepository     = (*bookGorm)(nil)
	_ usecase.BookSyncRepository = (*bookGorm)(nil)
)

// NewBookRepository は指定されたDB接続でbookGormの新しいインスタンスを生成します。
func NewBookRepository(db *gorm.DB) *bookGorm {
	return &bookGorm{db: db}
}

// Create は本をデータベースに追加します。
func (r *bookGorm) Create(ctx context.Context, b *entity.Book) error {
	m := ToModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	b.CreatedAt = m.CreatedAt.UTC()
	return nil
}

// FindByID はIDで本を取得します。存在しない場合はusecase.ErrBookNotFoundを返します。
func (r *bookGorm) FindByID(ctx context.Context, id string) (*entity.Book, error) {
	var m BookModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrBookNotFound
		}
		return nil, err
	}
	b := m.ToEntity()
	return &b, nil
}

// Delete はIDで本を削除します。削除対象がない場合はusecase.ErrBookNotFoundを返します。
func (r *bookGorm) Delete(ctx context.Context, id string) error {
	deleted, err := r.DeleteIfExists(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return usecase.ErrBookNotFound
	}
	return nil
}

// ListAvailable は貸出可能な本を作成順に返します。
// 出版社とカテゴリは大文字小文字を区別しない部分一致で絞り込みます。
func (r *bookGorm) ListAvailable(ctx context.Context, f entity.Filter) ([]entity.Book, error) {
	q := r.db.WithContext(ctx).Where("available = ?", true)
	if f.Publisher != "" {
		q = q.Where(`LOWER(publisher) LIKE ? ESCAPE '\'`, likePattern(f.Publisher))
	}
	if f.Category != "" {
		q = q.Where(`LOWER(category) LIKE ? ESCAPE '\'`, likePattern(f.Category))
	}
	return r.list(q)
}

// ListUnavailable は貸出中の本を作成順に返します。
func (r *bookGorm) ListUnavailable(ctx context.Context) ([]entity.Book, error) {
	return r.list(r.db.WithContext(ctx).Where("available = ?", false))
}

// Upsert はIDが存在すれば全項目を更新し、なければ挿入します。created_atは初回挿入時の値を保持します。
func (r *bookGorm) Upsert(ctx context.Context, b *entity.Book) error {
	m := ToModel(b)
	m.CreatedAt = m.CreatedAt.UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "author", "publisher", "category",
			"available", "borrowed_by", "borrowed_until", "updated_at",
		}),
	}).Create(&m).Error
}

// DeleteIfExists はIDで本を削除し、削除したかどうかを返します。
func (r *bookGorm) DeleteIfExists(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookGorm) list(q *gorm.DB) ([]entity.Book, error) {
	var rows []BookModel
	if err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// likePattern はLIKE用の部分一致パターンを生成します。ワイルドカード文字はエスケープします。
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return "%" + s + "%"
}
