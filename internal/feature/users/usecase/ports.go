package usecase

import (
	"context"
	"time"

	"library_api/internal/feature/users/domain/entity"
)

// UserReader は利用者の参照系操作を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserReader interface {
	// ListAll は全利用者を登録順に返します。貸出中の本も含みます。
	ListAll(ctx context.Context) ([]entity.User, error)

	// ListWithBorrowedBooks は1冊以上借りている利用者を登録順に返します。
	ListWithBorrowedBooks(ctx context.Context) ([]entity.User, error)
}

// UserRepository はFrontendの利用者登録が使用する永続化層です。
type UserRepository interface {
	UserReader

	// ExistsByEmail はメールアドレスが登録済みかを返します。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create は利用者を永続化します。
	// メールアドレスの一意制約違反はErrEmailAlreadyExistsに変換して返します。
	Create(ctx context.Context, user *entity.User) error
}

// UserSyncRepository はレプリケーション受信側の永続化層です。
type UserSyncRepository interface {
	// Upsert はIDが存在すれば更新し、なければ挿入します。
	Upsert(ctx context.Context, user *entity.User) error
}

// UserEvents はコミット済みの利用者をレプリケーション先へ通知します。
type UserEvents interface {
	Upserted(ctx context.Context, user entity.User)
}

// Clock は現在時刻を返します。
type Clock func() time.Time
