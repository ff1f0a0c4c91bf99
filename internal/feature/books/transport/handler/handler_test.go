package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/books/transport/handler"
	"library_api/internal/feature/books/usecase"
	"library_api/internal/platform/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

var errDB = errors.New("database error")

// mockBookQuery はBookQueryインターフェースのモック実装です。
type mockBookQuery struct {
	GetFunc             func(ctx context.Context, id string) (*entity.Book, error)
	ListAvailableFunc   func(ctx context.Context, filter entity.Filter) ([]entity.Book, error)
	ListUnavailableFunc func(ctx context.Context) ([]entity.Book, error)
}

func (m *mockBookQuery) Get(ctx context.Context, id string) (*entity.Book, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockBookQuery) ListAvailable(ctx context.Context, filter entity.Filter) ([]entity.Book, error) {
	return m.ListAvailableFunc(ctx, filter)
}

func (m *mockBookQuery) ListUnavailable(ctx context.Context) ([]entity.Book, error) {
	return m.ListUnavailableFunc(ctx)
}

// mockCatalogue はCatalogueとBorrowerのモック実装です。
type mockCatalogue struct {
	CreateFunc func(ctx context.Context, in usecase.CreateBookInput) (*entity.Book, error)
	DeleteFunc func(ctx context.Context, id string) error
	BorrowFunc func(ctx context.Context, bookID, userID string, days int) (*entity.Book, error)
}

func (m *mockCatalogue) Create(ctx context.Context, in usecase.CreateBookInput) (*entity.Book, error) {
	return m.CreateFunc(ctx, in)
}

func (m *mockCatalogue) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockCatalogue) Borrow(ctx context.Context, bookID, userID string, days int) (*entity.Book, error) {
	return m.BorrowFunc(ctx, bookID, userID, days)
}

// mockBookSync はBookSyncインターフェースのモック実装です。
type mockBookSync struct {
	ApplyUpsertFunc func(ctx context.Context, book *entity.Book) error
	ApplyDeleteFunc func(ctx context.Context, id string) error
}

func (m *mockBookSync) ApplyUpsert(ctx context.Context, book *entity.Book) error {
	return m.ApplyUpsertFunc(ctx, book)
}

func (m *mockBookSync) ApplyDelete(ctx context.Context, id string) error {
	return m.ApplyDeleteFunc(ctx, id)
}

func perform(r http.Handler, method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func borrowedBook() entity.Book {
	user := "u-1"
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return entity.Book{
		ID: "b-1", Title: "Dune", Author: "Herbert", Publisher: "Chilton", Category: "SF",
		Available: false, BorrowedBy: &user, BorrowedUntil: &due,
	}
}

// TestBookHandler は参照系エンドポイントのステータスと本文を検証します。
func TestBookHandler(t *testing.T) {
	uc := &mockBookQuery{
		GetFunc: func(ctx context.Context, id string) (*entity.Book, error) {
			switch id {
			case "b-1":
				b := borrowedBook()
				return &b, nil
			case "boom":
				return nil, errDB
			default:
				return nil, usecase.ErrBookNotFound
			}
		},
		ListAvailableFunc: func(ctx context.Context, filter entity.Filter) ([]entity.Book, error) {
			if filter.Publisher == "fail" {
				return nil, errDB
			}
			assert.Equal(t, entity.Filter{Publisher: "penguin", Category: "fiction"}, filter)
			return nil, nil
		},
		ListUnavailableFunc: func(ctx context.Context) ([]entity.Book, error) {
			return []entity.Book{borrowedBook()}, nil
		},
	}
	h := handler.NewBookHandler(uc, zerolog.Nop())
	r := gin.New()
	r.GET("/books", h.ListAvailable)
	r.GET("/books/unavailable", h.ListUnavailable)
	r.GET("/books/:id", h.GetBook)

	borrowedJSON := `{"id":"b-1","title":"Dune","author":"Herbert","publisher":"Chilton","category":"SF",` +
		`"available":false,"borrowed_by":"u-1","borrowed_until":"2024-01-15"}`

	tests := []struct {
		name           string
		url            string
		expectedStatus int
		expectedBody   string
	}{
		{name: "success: get borrowed book by id", url: "/books/b-1", expectedStatus: http.StatusOK, expectedBody: borrowedJSON},
		{name: "error: unknown id", url: "/books/b-404", expectedStatus: http.StatusNotFound, expectedBody: `{"message":"Book not found"}`},
		{name: "error: store failure hides details", url: "/books/boom", expectedStatus: http.StatusInternalServerError, expectedBody: `{"message":"An unexpected error has occurred."}`},
		{name: "success: empty list is an array", url: "/books?publisher=penguin&category=fiction", expectedStatus: http.StatusOK, expectedBody: `[]`},
		{name: "error: list failure", url: "/books?publisher=fail", expectedStatus: http.StatusInternalServerError, expectedBody: `{"message":"An unexpected error has occurred."}`},
		{name: "success: unavailable", url: "/books/unavailable", expectedStatus: http.StatusOK, expectedBody: "[" + borrowedJSON + "]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, http.MethodGet, tt.url, "")
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func newCatalogueRouter(m *mockCatalogue) *gin.Engine {
	h := handler.NewCatalogueHandler(m, m, validation.NewGate(), zerolog.Nop())
	r := gin.New()
	r.POST("/books", h.CreateBook)
	r.DELETE("/books/:id", h.DeleteBook)
	r.POST("/books/:id/borrow", h.BorrowBook)
	return r
}

// TestCatalogueHandler_CreateBook は登録時の検証と201レスポンスを検証します。
func TestCatalogueHandler_CreateBook(t *testing.T) {
	m := &mockCatalogue{
		CreateFunc: func(ctx context.Context, in usecase.CreateBookInput) (*entity.Book, error) {
			return &entity.Book{ID: "new", Title: in.Title, Author: in.Author, Publisher: in.Publisher, Category: in.Category, Available: true}, nil
		},
	}
	r := newCatalogueRouter(m)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           `{"title":"Dune","author":"Herbert","publisher":"Chilton","category":"SF","extra":1}`,
			expectedStatus: http.StatusCreated,
			expectedBody: `{"id":"new","title":"Dune","author":"Herbert","publisher":"Chilton","category":"SF",` +
				`"available":true,"borrowed_by":null,"borrowed_until":null}`,
		},
		{
			name:           "error: missing fields",
			body:           `{"title":"Dune"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":{"author":"Author is required","publisher":"Publisher is required","category":"Category is required"}}`,
		},
		{
			name:           "error: wrong type and too long",
			body:           `{"title":1,"author":"A","publisher":"P","category":"` + strings.Repeat("c", 51) + `"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":{"title":"Title must be a string","category":"Category must be at most 50 characters"}}`,
		},
		{
			name:           "error: no body",
			body:           "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"No input data provided"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, http.MethodPost, "/books", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestCatalogueHandler_DeleteBook は204の本文が空であることと404を検証します。
func TestCatalogueHandler_DeleteBook(t *testing.T) {
	m := &mockCatalogue{
		DeleteFunc: func(ctx context.Context, id string) error {
			if id == "b-1" {
				return nil
			}
			return usecase.ErrBookNotFound
		},
	}
	r := newCatalogueRouter(m)

	w := perform(r, http.MethodDelete, "/books/b-1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = perform(r, http.MethodDelete, "/books/b-2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Book not found"}`, w.Body.String())
}

// TestCatalogueHandler_BorrowBook は貸出の検証順序とエラー変換を検証します。
func TestCatalogueHandler_BorrowBook(t *testing.T) {
	m := &mockCatalogue{
		BorrowFunc: func(ctx context.Context, bookID, userID string, days int) (*entity.Book, error) {
			switch {
			case bookID == "missing":
				return nil, usecase.ErrBookNotFound
			case bookID == "taken":
				return nil, usecase.ErrBookNotAvailable
			case userID == "ghost":
				return nil, usecase.ErrUserNotFound
			}
			assert.Equal(t, 14, days)
			b := borrowedBook()
			return &b, nil
		},
	}
	r := newCatalogueRouter(m)

	daysError := `{"message":{"days":"Days must be between 1 and 365"}}`

	tests := []struct {
		name           string
		url            string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			url:            "/books/b-1/borrow",
			body:           `{"user_id":"u-1","days":14}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Book borrowed until 2024-01-15","borrowed_until":"2024-01-15"}`,
		},
		{name: "error: zero days", url: "/books/b-1/borrow", body: `{"user_id":"u-1","days":0}`, expectedStatus: http.StatusBadRequest, expectedBody: daysError},
		{name: "error: 366 days", url: "/books/b-1/borrow", body: `{"user_id":"u-1","days":366}`, expectedStatus: http.StatusBadRequest, expectedBody: daysError},
		{name: "error: negative days", url: "/books/b-1/borrow", body: `{"user_id":"u-1","days":-1}`, expectedStatus: http.StatusBadRequest, expectedBody: daysError},
		{name: "error: fractional days", url: "/books/b-1/borrow", body: `{"user_id":"u-1","days":1.5}`, expectedStatus: http.StatusBadRequest, expectedBody: `{"message":{"days":"Days must be an integer"}}`},
		{name: "error: text days", url: "/books/b-1/borrow", body: `{"user_id":"u-1","days":"seven"}`, expectedStatus: http.StatusBadRequest, expectedBody: `{"message":{"days":"Days must be an integer"}}`},
		{name: "error: missing days", url: "/books/b-1/borrow", body: `{"user_id":"u-1"}`, expectedStatus: http.StatusBadRequest, expectedBody: `{"message":{"days":"Days is required"}}`},
		{
			name:           "error: invalid body is rejected before the book is resolved",
			url:            "/books/missing/borrow",
			body:           `{"days":7}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":{"user_id":"User id is required"}}`,
		},
		{name: "error: book not found", url: "/books/missing/borrow", body: `{"user_id":"u-1","days":7}`, expectedStatus: http.StatusNotFound, expectedBody: `{"message":"Book not found"}`},
		{name: "error: already borrowed", url: "/books/taken/borrow", body: `{"user_id":"u-1","days":7}`, expectedStatus: http.StatusBadRequest, expectedBody: `{"message":"Book not available for borrowing"}`},
		{name: "error: user not found", url: "/books/b-1/borrow", body: `{"user_id":"ghost","days":7}`, expectedStatus: http.StatusNotFound, expectedBody: `{"message":"User not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, http.MethodPost, tt.url, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestSyncHandler はレプリケーション受信エンドポイントを検証します。
func TestSyncHandler(t *testing.T) {
	var applied *entity.Book
	m := &mockBookSync{
		ApplyUpsertFunc: func(ctx context.Context, book *entity.Book) error {
			if book.Available == (book.BorrowedBy != nil) {
				return usecase.ErrInconsistentBook
			}
			applied = book
			return nil
		},
		ApplyDeleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	h := handler.NewSyncHandler(m, validation.NewGate(), zerolog.Nop())
	r := gin.New()
	r.POST("/books/update", h.UpsertBook)
	r.POST("/books/delete", h.DeleteBook)

	w := perform(r, http.MethodPost, "/books/update",
		`{"id":"b-1","title":"Dune","author":"A","publisher":"P","category":"C","available":false,"borrowed_by":"u-1","borrowed_until":"2024-01-15"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Book updated successfully"}`, w.Body.String())
	if assert.NotNil(t, applied) && assert.NotNil(t, applied.BorrowedUntil) {
		assert.Equal(t, "2024-01-15", applied.BorrowedUntil.Format("2006-01-02"))
	}

	w = perform(r, http.MethodPost, "/books/update",
		`{"id":"b-1","title":"Dune","author":"A","publisher":"P","category":"C","available":true,"borrowed_by":"u-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"available"`)

	w = perform(r, http.MethodPost, "/books/update", `{"id":"b-1","title":"Dune","author":"A","publisher":"P","category":"C","borrowed_until":"15/01/2024"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":{"available":"Available is required","borrowed_until":"Borrowed until has an invalid format"}}`, w.Body.String())

	w = perform(r, http.MethodPost, "/books/delete", `{"id":"unknown"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Book deleted successfully"}`, w.Body.String())

	w = perform(r, http.MethodPost, "/books/delete", `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"No input data provided"}`, w.Body.String())
}
