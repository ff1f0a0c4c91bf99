// Package dto はusersフィーチャーのHTTPリクエスト/レスポンスDTOとマッパーを提供します。
package dto

import (
	bookdto "library_api/internal/feature/books/transport/http/dto"
	"library_api/internal/feature/users/domain/entity"
)

// UserPayload は利用者の基本項目です。レプリケーションのペイロードに使用します。
type UserPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserResponse は利用者のレスポンスDTOです。借りている本の完全な情報を含みます。
type UserResponse struct {
	UserPayload
	BorrowedBooks []bookdto.BookResponse `json:"borrowed_books"`
}

// NewUserPayload はエンティティからペイロードを生成します。
func NewUserPayload(u entity.User) UserPayload {
	return UserPayload{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// FromUser はエンティティをレスポンスDTOに変換します。
func FromUser(u entity.User) UserResponse {
	return UserResponse{
		UserPayload:   NewUserPayload(u),
		BorrowedBooks: bookdto.FromBooks(u.BorrowedBooks),
	}
}

// FromUsers は利用者の一覧をレスポンスDTOに変換します。
func FromUsers(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
