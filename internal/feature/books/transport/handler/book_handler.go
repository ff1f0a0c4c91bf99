// Package handler はbooksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"library_api/internal/api"
	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/books/transport/http/dto"
)

// BookQuery は本の参照系ユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type BookQuery interface {
	Get(ctx context.Context, id string) (*entity.Book, error)
	ListAvailable(ctx context.Context, filter entity.Filter) ([]entity.Book, error)
	ListUnavailable(ctx context.Context) ([]entity.Book, error)
}

// BookHandler は本の参照系HTTPリクエストを処理します。FrontendとBackendの両方で使用します。
type BookHandler struct {
	uc  BookQuery
	log zerolog.Logger
}

// NewBookHandler は指定されたusecaseでBookHandlerの新しいインスタンスを生成します。
func NewBookHandler(uc BookQuery, log zerolog.Logger) *BookHandler {
	return &BookHandler{uc: uc, log: log}
}

// ListAvailable は貸出可能な本の一覧を返します。
//
// エンドポイント例:
// GET /books?publisher=penguin&category=fiction
func (h *BookHandler) ListAvailable(c *gin.Context) {
	filter := entity.Filter{
		Publisher: c.Query("publisher"),
		Category:  c.Query("category"),
	}
	books, err := h.uc.ListAvailable(c.Request.Context(), filter)
	if err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBooks(books))
}

// ListUnavailable は貸出中の本の一覧を返します。
//
// エンドポイント例:
// GET /books/unavailable
func (h *BookHandler) ListUnavailable(c *gin.Context) {
	books, err := h.uc.ListUnavailable(c.Request.Context())
	if err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBooks(books))
}

// GetBook はIDで本を返します。存在しない場合は404です。
//
// エンドポイント例:
// GET /books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	book, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBook(*book))
}
