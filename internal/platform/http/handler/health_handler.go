// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger は依存先（DBなど）の疎通確認を行います。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// pingTimeout は疎通確認1回あたりの上限時間です。
const pingTimeout = 2 * time.Second

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理するハンドラーを返します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// dbがnilでない場合、GETではDBへの疎通も確認し、失敗時は503を返します。
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			if db != nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
				defer cancel()
				if err := db.PingContext(ctx); err != nil {
					c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "db": "down"})
					return
				}
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		}
	}
}
