// Package api はHTTPレスポンスの共通型とエラー変換を提供します。
package api

// ErrorResponse はすべてのエラーレスポンスの形式です。
// Messageは文字列、またはフィールド名をキーとするメッセージのマップです。
type ErrorResponse struct {
	Message any `json:"message"`
}

// MessageResponse は本文がメッセージのみの成功レスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

const (
	// MsgResourceNotFound は未定義のルートに対するメッセージです。
	MsgResourceNotFound = "Resource not found"
	// MsgUnexpected は内部エラー時に返す唯一のメッセージです。詳細は返しません。
	MsgUnexpected = "An unexpected error has occurred."
)
