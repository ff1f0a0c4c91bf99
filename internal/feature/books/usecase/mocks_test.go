package usecase_test

import (
	"context"
	"errors"

	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/books/usecase"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockBookRepository はBookRepositoryインターフェースのモック実装です。
type mockBookRepository struct {
	FindByIDFunc        func(ctx context.Context, id string) (*entity.Book, error)
	ListAvailableFunc   func(ctx context.Context, filter entity.Filter) ([]entity.Book, error)
	ListUnavailableFunc func(ctx context.Context) ([]entity.Book, error)
	CreateFunc          func(ctx context.Context, book *entity.Book) error
	DeleteFunc          func(ctx context.Context, id string) error
}

func (m *mockBookRepository) FindByID(ctx context.Context, id string) (*entity.Book, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByIDFunc is not implemented")
}

func (m *mockBookRepository) ListAvailable(ctx context.Context, filter entity.Filter) ([]entity.Book, error) {
	if m.ListAvailableFunc != nil {
		return m.ListAvailableFunc(ctx, filter)
	}
	return nil, errors.New("ListAvailableFunc is not implemented")
}

func (m *mockBookRepository) ListUnavailable(ctx context.Context) ([]entity.Book, error) {
	if m.ListUnavailableFunc != nil {
		return m.ListUnavailableFunc(ctx)
	}
	return nil, errors.New("ListUnavailableFunc is not implemented")
}

func (m *mockBookRepository) Create(ctx context.Context, book *entity.Book) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, book)
	}
	return errors.New("CreateFunc is not implemented")
}

func (m *mockBookRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("DeleteFunc is not implemented")
}

// mockBookEvents は発行されたイベントを記録します。
type mockBookEvents struct {
	Upserts []entity.Book
	Deletes []string
}

func (m *mockBookEvents) Upserted(_ context.Context, book entity.Book) {
	m.Upserts = append(m.Upserts, book)
}

func (m *mockBookEvents) Deleted(_ context.Context, id string) {
	m.Deletes = append(m.Deletes, id)
}

// fakeBorrowStore はメモリ上の本と利用者でBorrowStoreを模倣します。
// InTxはfnがエラーを返した場合に変更を破棄します。
type fakeBorrowStore struct {
	Books     map[string]entity.Book
	Users     map[string]bool
	LockErr   error
	LoseRace  bool
	Committed int
}

var _ usecase.BorrowStore = (*fakeBorrowStore)(nil)

func (s *fakeBorrowStore) InTx(_ context.Context, fn func(tx usecase.BorrowTx) error) error {
	tx := &fakeBorrowTx{store: s, pending: map[string]entity.Book{}}
	if err := fn(tx); err != nil {
		return err
	}
	for id, b := range tx.pending {
		s.Books[id] = b
	}
	s.Committed++
	return nil
}

type fakeBorrowTx struct {
	store   *fakeBorrowStore
	pending map[string]entity.Book
}

func (t *fakeBorrowTx) LockBook(_ context.Context, id string) (*entity.Book, error) {
	if t.store.LockErr != nil {
		return nil, t.store.LockErr
	}
	b, ok := t.store.Books[id]
	if !ok {
		return nil, usecase.ErrBookNotFound
	}
	return &b, nil
}

func (t *fakeBorrowTx) UserExists(_ context.Context, userID string) (bool, error) {
	return t.store.Users[userID], nil
}

func (t *fakeBorrowTx) MarkBorrowed(_ context.Context, book *entity.Book) (bool, error) {
	if t.store.LoseRace {
		return false, nil
	}
	t.pending[book.ID] = *book
	return true, nil
}

// mockBookSyncRepository はBookSyncRepositoryインターフェースのモック実装です。
type mockBookSyncRepository struct {
	UpsertFunc         func(ctx context.Context, book *entity.Book) error
	DeleteIfExistsFunc func(ctx context.Context, id string) (bool, error)
	UpsertCalls        int
}

func (m *mockBookSyncRepository) Upsert(ctx context.Context, book *entity.Book) error {
	m.UpsertCalls++
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, book)
	}
	return nil
}

func (m *mockBookSyncRepository) DeleteIfExists(ctx context.Context, id string) (bool, error) {
	if m.DeleteIfExistsFunc != nil {
		return m.DeleteIfExistsFunc(ctx, id)
	}
	return false, nil
}
