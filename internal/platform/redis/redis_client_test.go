package redis

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_Disabled(t *testing.T) {
	t.Parallel()

	rdb, err := NewRedisClient(context.Background(), Options{}, zerolog.Nop())

	assert.ErrorIs(t, err, ErrDisabled)
	assert.Nil(t, rdb)
}

// TestNewRedisClient_Unreachable は接続できない場合にエラーが返されることを検証します。
func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	rdb, err := NewRedisClient(context.Background(), Options{Addr: "127.0.0.1:1"}, zerolog.Nop())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDisabled)
	assert.Nil(t, rdb)
}
