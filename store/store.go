// Package store 是单个实体类型的表格状态容器
//
// Store 组合了数据、选择、待删除、搜索、排序、筛选和列可见性，
// 每个作用域（页面、租户、测试）创建自己的实例。
// 所有方法可以并发调用；订阅者在锁释放后、在修改状态的 goroutine 上同步收到通知。
package store

import (
	"slices"
	"sync"

	"github.com/hatlonely/gridx/cfg/validator"
	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/grid/filter"
	"github.com/hatlonely/gridx/grid/order"
	"github.com/hatlonely/gridx/log"
	"github.com/hatlonely/gridx/log/logger"
	"github.com/pkg/errors"
)

type Options struct {
	// Entity 实体名称，例如 invoices
	Entity string `cfg:"entity" validate:"required"`
	// IDField 行标识字段
	IDField string `cfg:"idField" def:"id"`
	// SearchFields 参与搜索的字段路径，为空时搜索全部顶层字段
	SearchFields []string `cfg:"searchFields"`

	// 以下为初始状态，Reset 后恢复
	SortRules           []order.Rule       `cfg:"sortRules"`
	FilterConditions    []filter.Condition `cfg:"filterConditions"`
	SortCaseSensitive   bool               `cfg:"sortCaseSensitive"`
	SortNullsFirst      bool               `cfg:"sortNullsFirst"`
	FilterCaseSensitive bool               `cfg:"filterCaseSensitive"`
	ColumnVisibility    map[string]bool    `cfg:"columnVisibility"`

	Logger logger.Logger `cfg:"-"`
}

// State 某一时刻的状态快照
// Data 中的行与 Store 共享，调用方不能原地修改，需要修改时使用 grid.Row 的 With/Merge
type State struct {
	Data                []grid.Row
	SelectedRows        []string
	SearchQuery         string
	SortRules           []order.Rule
	FilterConditions    []filter.Condition
	SortCaseSensitive   bool
	SortNullsFirst      bool
	FilterCaseSensitive bool
	ColumnVisibility    map[string]bool
	PendingDeleteIDs    []string
}

// Listener 状态变化的订阅者
type Listener func(state State)

type subscription struct {
	id       int
	listener Listener
}

type state struct {
	data                []grid.Row
	selected            idSet
	pending             idSet
	searchQuery         string
	sortRules           []order.Rule
	filterConditions    []filter.Condition
	sortCaseSensitive   bool
	sortNullsFirst      bool
	filterCaseSensitive bool
	columnVisibility    map[string]bool
}

// Store 实体表格状态
type Store struct {
	entity       string
	idField      string
	searchFields []string
	initial      Options
	logger       logger.Logger

	mu     sync.RWMutex
	state  state
	subs   []subscription
	nextID int
}

// NewWithOptions 创建状态容器
func NewWithOptions(options *Options) (*Store, error) {
	if options == nil {
		return nil, errors.New("store options is nil")
	}
	if err := validator.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "validator.ValidateStruct failed")
	}

	initial := *options
	if initial.IDField == "" {
		initial.IDField = grid.DefaultIDField
	}
	s := &Store{
		entity:       initial.Entity,
		idField:      initial.IDField,
		searchFields: slices.Clone(initial.SearchFields),
		initial:      initial,
		logger:       log.OrDefault(options.Logger).With("entity", initial.Entity),
	}
	s.state = s.initialState()
	return s, nil
}

func (s *Store) initialState() state {
	return state{
		sortRules:           slices.Clone(s.initial.SortRules),
		filterConditions:    slices.Clone(s.initial.FilterConditions),
		sortCaseSensitive:   s.initial.SortCaseSensitive,
		sortNullsFirst:      s.initial.SortNullsFirst,
		filterCaseSensitive: s.initial.FilterCaseSensitive,
		columnVisibility:    cloneVisibility(s.initial.ColumnVisibility),
	}
}

// Entity 实体名称
func (s *Store) Entity() string {
	return s.entity
}

// IDField 行标识字段
func (s *Store) IDField() string {
	return s.idField
}

// update 在写锁内修改状态，fn 返回 true 时在锁外通知订阅者
func (s *Store) update(fn func(st *state) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.listener(snapshot)
	}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

func (s *Store) snapshotLocked() State {
	st := &s.state
	return State{
		Data:                slices.Clone(st.data),
		SelectedRows:        st.selected.list(),
		SearchQuery:         st.searchQuery,
		SortRules:           slices.Clone(st.sortRules),
		FilterConditions:    slices.Clone(st.filterConditions),
		SortCaseSensitive:   st.sortCaseSensitive,
		SortNullsFirst:      st.sortNullsFirst,
		FilterCaseSensitive: st.filterCaseSensitive,
		ColumnVisibility:    cloneVisibility(st.columnVisibility),
		PendingDeleteIDs:    st.pending.list(),
	}
}

// Snapshot 返回当前状态的拷贝
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Reset 恢复到创建时的状态，订阅关系保留
func (s *Store) Reset() {
	s.update(func(st *state) bool {
		*st = s.initialState()
		return true
	})
}

// Subscribe 订阅状态变化，返回取消订阅的函数
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, listener: listener})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// SetData 替换全部数据，选择和待删除按 id 保留
func (s *Store) SetData(rows []grid.Row) {
	s.update(func(st *state) bool {
		st.data = slices.Clone(rows)
		return true
	})
}

// Data 返回当前数据
func (s *Store) Data() []grid.Row {
	var rows []grid.Row
	s.read(func(st *state) {
		rows = slices.Clone(st.data)
	})
	return rows
}

// Row 按 id 查找行
func (s *Store) Row(id string) (grid.Row, bool) {
	var row grid.Row
	var ok bool
	s.read(func(st *state) {
		if i := s.indexOf(st, id); i >= 0 {
			row, ok = st.data[i], true
		}
	})
	return row, ok
}

func (s *Store) indexOf(st *state, id string) int {
	return slices.IndexFunc(st.data, func(row grid.Row) bool {
		return row.ID(s.idField) == id
	})
}

// UpsertRow 按 id 替换行，不存在时追加到末尾
func (s *Store) UpsertRow(row grid.Row) {
	s.update(func(st *state) bool {
		if i := s.indexOf(st, row.ID(s.idField)); i >= 0 {
			st.data = slices.Clone(st.data)
			st.data[i] = row
			return true
		}
		st.data = append(slices.Clone(st.data), row)
		return true
	})
}

// ReplaceRow 用 row 替换 id 对应的行并保持位置，选择和待删除状态转移到新的 id
// id 不存在时返回 false
func (s *Store) ReplaceRow(id string, row grid.Row) bool {
	replaced := false
	s.update(func(st *state) bool {
		i := s.indexOf(st, id)
		if i < 0 {
			return false
		}
		st.data = slices.Clone(st.data)
		st.data[i] = row
		if next := row.ID(s.idField); next != id {
			if st.selected.remove(id) {
				st.selected.add(next)
			}
			if st.pending.remove(id) {
				st.pending.add(next)
			}
		}
		replaced = true
		return true
	})
	return replaced
}

// RemoveRows 删除行，同时清除它们的选择和待删除状态
func (s *Store) RemoveRows(ids ...string) {
	if len(ids) == 0 {
		return
	}
	s.update(func(st *state) bool {
		remove := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			remove[id] = struct{}{}
			st.selected.remove(id)
			st.pending.remove(id)
		}
		st.data = slices.DeleteFunc(slices.Clone(st.data), func(row grid.Row) bool {
			_, ok := remove[row.ID(s.idField)]
			return ok
		})
		return true
	})
}

// InsertRow 在 index 位置插入行，越界时追加到末尾
func (s *Store) InsertRow(index int, row grid.Row) {
	s.update(func(st *state) bool {
		if index < 0 || index > len(st.data) {
			index = len(st.data)
		}
		st.data = slices.Insert(slices.Clone(st.data), index, row)
		return true
	})
}

func cloneVisibility(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
