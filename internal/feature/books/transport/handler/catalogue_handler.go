package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"library_api/internal/api"
	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/books/transport/http/dto"
	"library_api/internal/feature/books/usecase"
	"library_api/internal/platform/validation"
)

// Catalogue はカタログ更新のユースケースインターフェースです。
type Catalogue interface {
	Create(ctx context.Context, in usecase.CreateBookInput) (*entity.Book, error)
	Delete(ctx context.Context, id string) error
}

// Borrower は貸出のユースケースインターフェースです。
type Borrower interface {
	Borrow(ctx context.Context, bookID, userID string, days int) (*entity.Book, error)
}

// CatalogueHandler はFrontendの本の登録・削除・貸出リクエストを処理します。
type CatalogueHandler struct {
	catalogue Catalogue
	borrower  Borrower
	gate      *validation.Gate
	log       zerolog.Logger
}

// NewCatalogueHandler はCatalogueHandlerの新しいインスタンスを生成します。
func NewCatalogueHandler(catalogue Catalogue, borrower Borrower, gate *validation.Gate, log zerolog.Logger) *CatalogueHandler {
	return &CatalogueHandler{catalogue: catalogue, borrower: borrower, gate: gate, log: log}
}

// CreateBook は本を登録し、201で登録結果を返します。
//
// エンドポイント例:
// POST /books
func (h *CatalogueHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := h.gate.BindJSON(c, &req); err != nil {
		api.RespondError(c, h.log, err)
		return
	}

	book, err := h.catalogue.Create(c.Request.Context(), usecase.CreateBookInput{
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		Category:  req.Category,
	})
	if err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromBook(*book))
}

// DeleteBook は本を削除し、本文なしの204を返します。
//
// エンドポイント例:
// DELETE /books/:id
func (h *CatalogueHandler) DeleteBook(c *gin.Context) {
	if err := h.catalogue.Delete(c.Request.Context(), c.Param("id")); err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BorrowBook は本を貸し出し、期日を返します。
// 本文の検証は本の存在確認より先に行います。
//
// エンドポイント例:
// POST /books/:id/borrow  {"user_id": "...", "days": 14}
func (h *CatalogueHandler) BorrowBook(c *gin.Context) {
	var req dto.BorrowRequest
	if err := h.gate.BindJSON(c, &req); err != nil {
		api.RespondError(c, h.log, err)
		return
	}

	book, err := h.borrower.Borrow(c.Request.Context(), c.Param("id"), req.UserID, *req.Days)
	if err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBorrowResponse(*book))
}
