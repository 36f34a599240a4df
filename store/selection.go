package store

import (
	"slices"

	"github.com/hatlonely/gridx/grid"
)

// idSet 保持插入顺序的 id 集合
type idSet struct {
	ids   []string
	index map[string]struct{}
}

func (s *idSet) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *idSet) add(id string) bool {
	if s.has(id) {
		return false
	}
	if s.index == nil {
		s.index = map[string]struct{}{}
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *idSet) remove(id string) bool {
	if !s.has(id) {
		return false
	}
	delete(s.index, id)
	s.ids = slices.DeleteFunc(s.ids, func(v string) bool { return v == id })
	return true
}

func (s *idSet) clear() bool {
	if len(s.ids) == 0 {
		return false
	}
	s.ids, s.index = nil, nil
	return true
}

func (s *idSet) list() []string {
	return slices.Clone(s.ids)
}

// SelectRow 选中行
func (s *Store) SelectRow(id string) {
	s.update(func(st *state) bool {
		return st.selected.add(id)
	})
}

// DeselectRow 取消选中
func (s *Store) DeselectRow(id string) {
	s.update(func(st *state) bool {
		return st.selected.remove(id)
	})
}

// ToggleRow 切换选中状态
func (s *Store) ToggleRow(id string) {
	s.update(func(st *state) bool {
		if st.selected.remove(id) {
			return true
		}
		return st.selected.add(id)
	})
}

// SelectAll 选中当前视图中可见的全部行
func (s *Store) SelectAll() {
	rows := s.View()
	s.update(func(st *state) bool {
		changed := false
		for _, row := range rows {
			if st.selected.add(row.ID(s.idField)) {
				changed = true
			}
		}
		return changed
	})
}

// ClearSelection 清空选择
func (s *Store) ClearSelection() {
	s.update(func(st *state) bool {
		return st.selected.clear()
	})
}

// IsSelected 行是否被选中
func (s *Store) IsSelected(id string) bool {
	var ok bool
	s.read(func(st *state) {
		ok = st.selected.has(id)
	})
	return ok
}

// SelectedIDs 按选中顺序返回 id，包括当前数据中不存在的 id
func (s *Store) SelectedIDs() []string {
	var ids []string
	s.read(func(st *state) {
		ids = st.selected.list()
	})
	return ids
}

// SelectedRows 返回当前数据中被选中的行，按数据顺序
func (s *Store) SelectedRows() []grid.Row {
	var rows []grid.Row
	s.read(func(st *state) {
		for _, row := range st.data {
			if st.selected.has(row.ID(s.idField)) {
				rows = append(rows, row)
			}
		}
	})
	return rows
}

// StageDelete 将行标记为待删除
func (s *Store) StageDelete(ids ...string) {
	s.update(func(st *state) bool {
		changed := false
		for _, id := range ids {
			if st.pending.add(id) {
				changed = true
			}
		}
		return changed
	})
}

// UnstageDelete 取消待删除标记
func (s *Store) UnstageDelete(ids ...string) {
	s.update(func(st *state) bool {
		changed := false
		for _, id := range ids {
			if st.pending.remove(id) {
				changed = true
			}
		}
		return changed
	})
}

// IsPendingDelete 行是否待删除
func (s *Store) IsPendingDelete(id string) bool {
	var ok bool
	s.read(func(st *state) {
		ok = st.pending.has(id)
	})
	return ok
}

// PendingDeleteIDs 按标记顺序返回待删除的 id
func (s *Store) PendingDeleteIDs() []string {
	var ids []string
	s.read(func(st *state) {
		ids = st.pending.list()
	})
	return ids
}

// ClearPendingDeletes 清空待删除
func (s *Store) ClearPendingDeletes() {
	s.update(func(st *state) bool {
		return st.pending.clear()
	})
}
