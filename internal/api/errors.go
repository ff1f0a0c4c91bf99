package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"library_api/internal/platform/validation"
	"library_api/internal/shared/apperr"
)

// RespondError はerrをHTTPステータスとErrorResponseに変換して書き込みます。
//
//   - validation.Errors: 400（フィールドごとのメッセージ）
//   - validation.ErrNoInput: 400
//   - NotFound: 404
//   - Conflict, Validation: 400
//   - その他: ログに記録し、500（汎用メッセージのみ）
func RespondError(c *gin.Context, log zerolog.Logger, err error) {
	status, body := Resolve(err)
	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("unhandled error")
	}
	c.AbortWithStatusJSON(status, body)
}

// Resolve はerrに対応するステータスコードとレスポンスを返します。
func Resolve(err error) (int, ErrorResponse) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, ErrorResponse{Message: map[string]string(fieldErrs)}
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorResponse{Message: MsgUnexpected}
	}

	msg := apperr.PublicMessage(err)
	switch appErr.Kind {
	case apperr.KindNotFound:
		return http.StatusNotFound, ErrorResponse{Message: msg}
	case apperr.KindConflict:
		return http.StatusBadRequest, ErrorResponse{Message: msg}
	case apperr.KindValidation:
		if appErr.Field != "" {
			return http.StatusBadRequest, ErrorResponse{Message: map[string]string{appErr.Field: msg}}
		}
		return http.StatusBadRequest, ErrorResponse{Message: msg}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: MsgUnexpected}
	}
}
