package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library_api/internal/feature/users/domain/entity"
	"library_api/internal/feature/users/usecase"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のSQLSTATEです。
const pgUniqueViolation = "23505"

// userGorm はUserRepositoryとUserSyncRepositoryのgorm実装です。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var (
	_ usecase.UserRepository     = (*userGorm)(nil)
	_ usecase.UserSyncRepository = (*userGorm)(nil)
)

// NewUserRepository は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create は利用者をデータベースに追加します。
// 同じメールアドレスの利用者が既に存在する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	m := toModel(u)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	u.CreatedAt = m.CreatedAt.UTC()
	return nil
}

// ExistsByEmail はメールアドレスが登録済みかを返します。
func (r *userGorm) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAll は全利用者を登録順に返します。
func (r *userGorm) ListAll(ctx context.Context) ([]entity.User, error) {
	return r.list(r.db.WithContext(ctx))
}

// ListWithBorrowedBooks は1冊以上借りている利用者を、借りている本とともに返します。
func (r *userGorm) ListWithBorrowedBooks(ctx context.Context) ([]entity.User, error) {
	return r.list(r.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM books WHERE books.borrowed_by = users.id)"))
}

// Upsert はIDが存在すれば更新し、なければ挿入します。
// 別のIDが同じメールアドレスを使っている場合はusecase.ErrEmailAlreadyExistsを返します。
func (r *userGorm) Upsert(ctx context.Context, u *entity.User) error {
	m := toModel(u)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userGorm) list(q *gorm.DB) ([]entity.User, error) {
	var rows []UserModel
	err := q.
		Preload("BorrowedBooks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// isUniqueViolation はTranslateErrorで変換されたエラーとpgxのエラーコードの両方を判定します。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
