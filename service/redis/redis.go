package redis

import (
	"errors"
	"time"

	"github.com/domaindao/goapi/base/ctx"
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("key not found")
)

type Service interface {
	Get(ctx.Ctx, string) ([]byte, error)
	Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	SetNX(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(c ctx.Ctx, keys ...string) (int, error)
	Exists(c ctx.Ctx, key string) (bool, error)
	TTL(c ctx.Ctx, key string) (int, error)
	Incrby(c ctx.Ctx, key string, val int) (int64, error)
}
