package column

import "sync"

// Handle 保存单元格所在行的最新快照
// 每次分发都会更新，写回操作总是基于最新快照合并
type Handle[V any] struct {
	mu    sync.RWMutex
	value V
	index int
}

func NewHandle[V any](value V, index int) *Handle[V] {
	return &Handle[V]{value: value, index: index}
}

// Load 返回当前快照和行号
func (h *Handle[V]) Load() (V, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value, h.index
}

// Store 更新快照
func (h *Handle[V]) Store(value V, index int) {
	h.mu.Lock()
	h.value = value
	h.index = index
	h.mu.Unlock()
}
