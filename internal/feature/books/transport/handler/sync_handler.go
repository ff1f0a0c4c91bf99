package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"library_api/internal/api"
	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/books/transport/http/dto"
	"library_api/internal/platform/validation"
)

// BookSync はレプリケーション受信のユースケースインターフェースです。
type BookSync interface {
	ApplyUpsert(ctx context.Context, book *entity.Book) error
	ApplyDelete(ctx context.Context, id string) error
}

// SyncHandler はBackendでFrontendからの本のレプリケーションを受信します。
type SyncHandler struct {
	uc   BookSync
	gate *validation.Gate
	log  zerolog.Logger
}

// NewSyncHandler はSyncHandlerの新しいインスタンスを生成します。
func NewSyncHandler(uc BookSync, gate *validation.Gate, log zerolog.Logger) *SyncHandler {
	return &SyncHandler{uc: uc, gate: gate, log: log}
}

// UpsertBook は本の状態をIDで更新または挿入します。
//
// エンドポイント例:
// POST /books/update
func (h *SyncHandler) UpsertBook(c *gin.Context) {
	var req dto.SyncBookRequest
	if err := h.gate.BindJSON(c, &req); err != nil {
		api.RespondError(c, h.log, err)
		return
	}

	book := req.ToEntity()
	if err := h.uc.ApplyUpsert(c.Request.Context(), &book); err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Book updated successfully"})
}

// DeleteBook は本を削除します。未知のIDも成功として扱います。
//
// エンドポイント例:
// POST /books/delete  {"id": "..."}
func (h *SyncHandler) DeleteBook(c *gin.Context) {
	var req dto.DeleteBookRequest
	if err := h.gate.BindJSON(c, &req); err != nil {
		api.RespondError(c, h.log, err)
		return
	}

	if err := h.uc.ApplyDelete(c.Request.Context(), req.ID); err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Book deleted successfully"})
}
