package dto

import "library_api/internal/feature/users/domain/entity"

// CreateUserRequest は利用者登録リクエストです。
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,max=120,mailbox"`
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
}

// SyncUserRequest はFrontendから届く利用者の状態です。
type SyncUserRequest struct {
	ID        string `json:"id" binding:"required,max=36"`
	Email     string `json:"email" binding:"required,max=120,mailbox"`
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
}

// ToEntity はリクエストをエンティティに変換します。
func (r SyncUserRequest) ToEntity() entity.User {
	return entity.User{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}
