// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"library_api/internal/api"
	"library_api/internal/feature/users/domain/entity"
	"library_api/internal/feature/users/transport/http/dto"
	"library_api/internal/feature/users/usecase"
	"library_api/internal/platform/validation"
)

// UserQuery は利用者の参照系ユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type UserQuery interface {
	ListAll(ctx context.Context) ([]entity.User, error)
	ListWithBorrowedBooks(ctx context.Context) ([]entity.User, error)
}

// Registrar は利用者登録のユースケースインターフェースです。
type Registrar interface {
	Create(ctx context.Context, in usecase.CreateUserInput) (*entity.User, error)
}

// UserSync はレプリケーション受信のユースケースインターフェースです。
type UserSync interface {
	ApplyUpsert(ctx context.Context, user *entity.User) error
}

// UserHandler は利用者の参照系HTTPリクエストを処理します。
type UserHandler struct {
	uc  UserQuery
	log zerolog.Logger
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(uc UserQuery, log zerolog.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

// ListUsers は全利用者を返します。
//
// エンドポイント例:
// GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListAll(c.Request.Context())
	if err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUsers(users))
}

// ListBorrowers は本を借りている利用者を返します。
//
// エンドポイント例:
// GET /users/borrowed
func (h *UserHandler) ListBorrowers(c *gin.Context) {
	users, err := h.uc.ListWithBorrowedBooks(c.Request.Context())
	if err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUsers(users))
}

// RegistrationHandler はFrontendの利用者登録を処理します。
type RegistrationHandler struct {
	uc   Registrar
	gate *validation.Gate
	log  zerolog.Logger
}

// NewRegistrationHandler はRegistrationHandlerの新しいインスタンスを生成します。
func NewRegistrationHandler(uc Registrar, gate *validation.Gate, log zerolog.Logger) *RegistrationHandler {
	return &RegistrationHandler{uc: uc, gate: gate, log: log}
}

// CreateUser は利用者を登録し、201で登録結果を返します。
//
// エンドポイント例:
// POST /users  {"email": "...", "first_name": "...", "last_name": "..."}
func (h *RegistrationHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := h.gate.BindJSON(c, &req); err != nil {
		api.RespondError(c, h.log, err)
		return
	}

	user, err := h.uc.Create(c.Request.Context(), usecase.CreateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromUser(*user))
}

// SyncHandler はBackendで利用者のレプリケーションを受信します。
type SyncHandler struct {
	uc   UserSync
	gate *validation.Gate
	log  zerolog.Logger
}

// NewSyncHandler はSyncHandlerの新しいインスタンスを生成します。
func NewSyncHandler(uc UserSync, gate *validation.Gate, log zerolog.Logger) *SyncHandler {
	return &SyncHandler{uc: uc, gate: gate, log: log}
}

// UpsertUser は利用者をIDで更新または挿入します。
//
// エンドポイント例:
// POST /users/update
func (h *SyncHandler) UpsertUser(c *gin.Context) {
	var req dto.SyncUserRequest
	if err := h.gate.BindJSON(c, &req); err != nil {
		api.RespondError(c, h.log, err)
		return
	}

	user := req.ToEntity()
	if err := h.uc.ApplyUpsert(c.Request.Context(), &user); err != nil {
		api.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "User updated successfully"})
}
