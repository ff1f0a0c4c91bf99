package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library_api/internal/feature/users/domain/entity"
	"library_api/internal/platform/metrics"
)

// QueryUsecase は利用者の参照系ユースケースです。FrontendとBackendの両方で使用します。
type QueryUsecase struct {
	users UserReader
}

// NewQueryUsecase はQueryUsecaseの新しいインスタンスを生成します。
func NewQueryUsecase(users UserReader) *QueryUsecase {
	return &QueryUsecase{users: users}
}

// ListAll は全利用者を返します。
func (u *QueryUsecase) ListAll(ctx context.Context) ([]entity.User, error) {
	return u.users.ListAll(ctx)
}

// ListWithBorrowedBooks は本を借りている利用者を返します。
func (u *QueryUsecase) ListWithBorrowedBooks(ctx context.Context) ([]entity.User, error) {
	return u.users.ListWithBorrowedBooks(ctx)
}

// CreateUserInput は利用者登録の入力値です。
type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
}

// UserUsecase はFrontendの利用者登録ユースケースです。
type UserUsecase struct {
	*QueryUsecase
	users  UserRepository
	events UserEvents
	newID  func() string
	now    Clock
}

// NewUserUsecase はUserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, events UserEvents) *UserUsecase {
	return &UserUsecase{
		QueryUsecase: NewQueryUsecase(users),
		users:        users,
		events:       events,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// Create は利用者を登録し、レプリケーション先へ通知します。
// メールアドレスが登録済みの場合はErrEmailAlreadyExistsを返します。
// 事前チェックをすり抜けた同時登録は、ストアの一意制約違反として検出されます。
func (u *UserUsecase) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	exists, err := u.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	user := &entity.User{
		ID:        u.newID(),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		CreatedAt: u.now().UTC(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	u.events.Upserted(ctx, *user)
	return user, nil
}

// SyncUsecase はFrontendから届いた利用者をBackendの読み取りモデルへ反映します。
type SyncUsecase struct {
	users   UserSyncRepository
	metrics *metrics.Metrics
}

// NewSyncUsecase はSyncUsecaseの新しいインスタンスを生成します。mはnilでも構いません。
func NewSyncUsecase(users UserSyncRepository, m *metrics.Metrics) *SyncUsecase {
	return &SyncUsecase{users: users, metrics: m}
}

// ApplyUpsert はIDで利用者を更新または挿入します。
func (u *SyncUsecase) ApplyUpsert(ctx context.Context, user *entity.User) error {
	if err := u.users.Upsert(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return err
		}
		return fmt.Errorf("upsert user %s: %w", user.ID, err)
	}
	if u.metrics != nil {
		u.metrics.IngestedTotal.WithLabelValues("user.upserted").Inc()
	}
	return nil
}
