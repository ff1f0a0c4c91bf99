// Package router はFrontendとBackendのgin.Engineを組み立てます。
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	bookhandler "library_api/internal/feature/books/transport/handler"
	userhandler "library_api/internal/feature/users/transport/handler"
	"library_api/internal/platform/http/handler"
	"library_api/internal/platform/http/middleware"
	"library_api/internal/platform/metrics"
)

// Options は両サービス共通のルーター設定です。
type Options struct {
	Log              zerolog.Logger
	Metrics          *metrics.Metrics
	CORSAllowOrigins []string
	// DB は/healthzで疎通確認する接続です。nilの場合は確認しません。
	DB handler.Pinger
}

// FrontendHandlers はFrontendのルートに登録するハンドラーです。
type FrontendHandlers struct {
	Books        *bookhandler.BookHandler
	Catalogue    *bookhandler.CatalogueHandler
	Users        *userhandler.UserHandler
	Registration *userhandler.RegistrationHandler
}

// BackendHandlers はBackendのルートに登録するハンドラーです。
type BackendHandlers struct {
	Books    *bookhandler.BookHandler
	BookSync *bookhandler.SyncHandler
	Users    *userhandler.UserHandler
	UserSync *userhandler.SyncHandler
}

// NewFrontendRouter は書き込みと貸出を受け付けるFrontendのルーターを生成します。
func NewFrontendRouter(opts Options, h FrontendHandlers) *gin.Engine {
	r := newEngine(opts)

	users := r.Group("/users")
	{
		users.GET("", h.Users.ListUsers)
		users.POST("", h.Registration.CreateUser)
		users.GET("/borrowed", h.Users.ListBorrowers)
	}

	books := r.Group("/books")
	{
		books.GET("", h.Books.ListAvailable)
		books.POST("", h.Catalogue.CreateBook)
		books.GET("/unavailable", h.Books.ListUnavailable)
		books.GET("/:id", h.Books.GetBook)
		books.DELETE("/:id", h.Catalogue.DeleteBook)
		books.POST("/:id/borrow", h.Catalogue.BorrowBook)
	}

	return r
}

// NewBackendRouter は参照系とレプリケーション受信を提供するBackendのルーターを生成します。
func NewBackendRouter(opts Options, h BackendHandlers) *gin.Engine {
	r := newEngine(opts)

	users := r.Group("/users")
	{
		users.GET("", h.Users.ListUsers)
		users.GET("/borrowed", h.Users.ListBorrowers)
		// Frontendからのレプリケーション
		users.POST("/update", h.UserSync.UpsertUser)
	}

	books := r.Group("/books")
	{
		books.GET("", h.Books.ListAvailable)
		books.GET("/unavailable", h.Books.ListUnavailable)
		books.GET("/:id", h.Books.GetBook)
		// Frontendからのレプリケーション
		books.POST("/update", h.BookSync.UpsertBook)
		books.POST("/delete", h.BookSync.DeleteBook)
	}

	return r
}

// newEngine は共通のミドルウェア、/healthz、/metricsを設定したエンジンを生成します。
func newEngine(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(opts.Log),
		middleware.RequestLogger(opts.Log),
		middleware.Metrics(opts.Metrics),
		middleware.CORS(opts.CORSAllowOrigins),
	)
	r.NoRoute(middleware.NoRoute)

	// 導通確認用
	health := handler.Health(opts.DB)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	return r
}
