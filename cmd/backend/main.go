// Command backend はFrontendから複製された状態を受け取り、読み取りAPIを公開するサービスです。
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"library_api/internal/app/config"
	"library_api/internal/app/di"
	"library_api/internal/app/router"
	"library_api/internal/platform/db"
	platformhttp "library_api/internal/platform/http"
	"library_api/internal/platform/logger"
	"library_api/internal/platform/metrics"
	"library_api/internal/platform/redis"
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
	cfg, err := config.LoadBackend(ctx)
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: cfg.Service})
	if !cfg.LogPretty {
		gin.SetMode(gin.ReleaseMode)
	}

	// db
	dbCfg := cfg.Database()
	dbCfg.DisableForeignKeys = true
	gdb, err := db.Open(dbCfg, cfg.DB.ConnectTimeout, log)
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

	// Redis
	var rdb *redisv9.Client
	if tmp, err := redis.NewRedisClient(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log); err != nil {
		if !errors.Is(err, redis.ErrDisabled) {
			log.Warn().Err(err).Msg("redis unavailable, running without cache")
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis client")
			}
		}()
	}

	m := metrics.New()
	h := di.NewBackendHandlers(gdb, rdb, cfg.Redis.CacheTTL, m, log)
	engine := router.NewBackendRouter(router.Options{
		Log:              log,
		Metrics:          m,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		DB:               sqlDB,
	}, h)

	return platformhttp.Run(ctx, platformhttp.NewServer(cfg.Addr(), engine), cfg.ShutdownTimeout, log)
}
