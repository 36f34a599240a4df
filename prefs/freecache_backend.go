package prefs

import (
	"context"
	"time"

	"github.com/coocood/freecache"
	"github.com/pkg/errors"
)

type FreeCacheBackendOptions struct {
	// Size 缓存大小，单位字节，freecache 最小 512KB
	Size int `cfg:"size" def:"1048576"`
}

// FreeCacheBackend 进程内的有界缓存，容量不足时淘汰旧的偏好
type FreeCacheBackend struct {
	cache *freecache.Cache
}

func NewFreeCacheBackendWithOptions(options *FreeCacheBackendOptions) *FreeCacheBackend {
	size := 1024 * 1024
	if options != nil && options.Size > 0 {
		size = options.Size
	}
	return &FreeCacheBackend{cache: freecache.NewCache(size)}
}

func (b *FreeCacheBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := b.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "freecache.Get failed")
	}
	return value, nil
}

func (b *FreeCacheBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.cache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		return errors.Wrap(err, "freecache.Set failed")
	}
	return nil
}

func (b *FreeCacheBackend) Del(ctx context.Context, key string) error {
	b.cache.Del([]byte(key))
	return nil
}

func (b *FreeCacheBackend) Close() error {
	b.cache.Clear()
	return nil
}
