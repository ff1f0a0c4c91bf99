// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrDisabled はアドレスが未設定でRedisを使用しない場合に返されます。
var ErrDisabled = errors.New("redis: address not configured")

// Options はRedis接続設定です。
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient はRedisへ接続し、疎通を確認したクライアントを返します。
// Addrが空の場合はErrDisabledを返します。呼び出し側はキャッシュなしで動作を継続します。
func NewRedisClient(ctx context.Context, opts Options, log zerolog.Logger) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, ErrDisabled
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error().Err(err).Str("address", opts.Addr).Msg("redis connection failed")
		_ = rdb.Close()
		return nil, err
	}

	log.Info().Str("address", opts.Addr).Msg("redis connection successful")
	return rdb, nil
}
