// Command frontend は書き込みAPIを公開し、変更をBackendへ複製するサービスです。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"library_api/internal/app/config"
	"library_api/internal/app/di"
	"library_api/internal/app/router"
	"library_api/internal/platform/db"
	platformhttp "library_api/internal/platform/http"
	"library_api/internal/platform/logger"
	"library_api/internal/platform/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadFrontend(ctx)
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: cfg.Service})
	if !cfg.LogPretty {
		gin.SetMode(gin.ReleaseMode)
	}

	// db
	gdb, err := db.Open(cfg.Database(), cfg.DB.ConnectTimeout, log)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close db")
		}
	}()
	if cfg.DB.RunMigrations {
		if err := db.Migrate(gdb, di.Models()...); err != nil {
			return err
		}
	}

	m := metrics.New()

	// レプリケーション
	pub, closePub := di.NewPublisher(cfg.Replication, m, log)

	h := di.NewFrontendHandlers(gdb, pub, m, log)
	engine := router.NewFrontendRouter(router.Options{
		Log:              log,
		Metrics:          m,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		DB:               sqlDB,
	}, h)

	runErr := platformhttp.Run(ctx, platformhttp.NewServer(cfg.Addr(), engine), cfg.ShutdownTimeout, log)

	// 受付停止後に未送信のイベントを送り切る
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := closePub(drainCtx); err != nil {
		log.Warn().Err(err).Msg("replication drain did not finish")
	}
	return runErr
}
