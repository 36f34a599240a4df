package prefs

import (
	"context"
	"time"

	"github.com/hatlonely/gridx/ref"
	"github.com/pkg/errors"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("key not found")

// Backend 字节键值后端
type Backend interface {
	// Get 键不存在时返回 ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set ttl 为 0 时不过期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Del 键不存在时也返回成功
	Del(ctx context.Context, key string) error
	Close() error
}

// NewBackendWithOptions 根据 TypeOptions 创建后端，options 为空时使用 MapBackend
func NewBackendWithOptions(options *ref.TypeOptions) (Backend, error) {
	if options == nil {
		return NewMapBackend(), nil
	}
	backend, err := ref.Build[Backend](options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.Build failed")
	}
	return backend, nil
}
