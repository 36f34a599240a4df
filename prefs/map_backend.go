package prefs

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// MapBackend 进程内的后端，不支持过期
type MapBackend struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMapBackend() *MapBackend {
	return &MapBackend{m: map[string][]byte{}}
}

func (b *MapBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.m[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return bytes.Clone(value), nil
}

func (b *MapBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.m[key] = bytes.Clone(value)
	return nil
}

func (b *MapBackend) Del(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.m, key)
	return nil
}

func (b *MapBackend) Close() error {
	return nil
}
