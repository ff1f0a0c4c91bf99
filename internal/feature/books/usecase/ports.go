package usecase

import (
	"context"
	"time"

	"library_api/internal/feature/books/domain/entity"
)

// BookReader はカタログの参照系操作を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type BookReader interface {
	// FindByID は貸出状態に関係なくIDで本を取得します。存在しない場合はErrBookNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.Book, error)

	// ListAvailable は貸出可能な本を作成順に返します。
	ListAvailable(ctx context.Context, filter entity.Filter) ([]entity.Book, error)

	// ListUnavailable は貸出中の本を作成順に返します。
	ListUnavailable(ctx context.Context) ([]entity.Book, error)
}

// BookWriter はカタログの更新系操作を抽象化します。
type BookWriter interface {
	// Create は新しい本を永続化します。
	Create(ctx context.Context, book *entity.Book) error

	// Delete はIDで本を削除します。存在しない場合はErrBookNotFoundを返します。
	Delete(ctx context.Context, id string) error
}

// BookRepository はFrontendのカタログが使用する永続化層です。
type BookRepository interface {
	BookReader
	BookWriter
}

// BorrowTx は貸出トランザクション内で利用できる操作です。
type BorrowTx interface {
	// LockBook は本を行ロック付きで取得します。存在しない場合はErrBookNotFoundを返します。
	LockBook(ctx context.Context, id string) (*entity.Book, error)

	// UserExists は利用者が存在するかを返します。
	UserExists(ctx context.Context, userID string) (bool, error)

	// MarkBorrowed は本が貸出可能な場合に限り貸出フィールドを更新します。
	// 他のトランザクションに先を越された場合はfalseを返します。
	MarkBorrowed(ctx context.Context, book *entity.Book) (bool, error)
}

// BorrowStore は貸出処理を単一トランザクションで実行します。
// fnがエラーを返した場合はロールバックされます。
type BorrowStore interface {
	InTx(ctx context.Context, fn func(tx BorrowTx) error) error
}

// BookSyncRepository はレプリケーション受信側の永続化層です。
type BookSyncRepository interface {
	// Upsert はIDが存在すれば更新し、なければ挿入します。
	Upsert(ctx context.Context, book *entity.Book) error

	// DeleteIfExists はIDで本を削除します。存在しない場合もエラーにしません。
	DeleteIfExists(ctx context.Context, id string) (bool, error)
}

// Clock は現在時刻を返します。テストで固定できます。
type Clock func() time.Time
