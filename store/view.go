package store

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/grid/filter"
	"github.com/hatlonely/gridx/grid/order"
)

// SetSearchQuery 设置搜索词，首尾空白不参与匹配
func (s *Store) SetSearchQuery(q string) {
	s.update(func(st *state) bool {
		if st.searchQuery == q {
			return false
		}
		st.searchQuery = q
		return true
	})
}

// SearchQuery 当前搜索词
func (s *Store) SearchQuery() string {
	var q string
	s.read(func(st *state) {
		q = st.searchQuery
	})
	return q
}

// SetSortRules 替换全部排序规则
func (s *Store) SetSortRules(rules []order.Rule) {
	s.update(func(st *state) bool {
		st.sortRules = slices.Clone(rules)
		return true
	})
}

// AddSortRule 追加排序规则，同一字段已有规则时原位替换
func (s *Store) AddSortRule(rule order.Rule) {
	s.update(func(st *state) bool {
		rules := slices.Clone(st.sortRules)
		if i := slices.IndexFunc(rules, func(r order.Rule) bool { return r.Field == rule.Field }); i >= 0 {
			rules[i] = rule
		} else {
			rules = append(rules, rule)
		}
		st.sortRules = rules
		return true
	})
}

// RemoveSortRule 删除字段的排序规则
func (s *Store) RemoveSortRule(field string) {
	s.update(func(st *state) bool {
		rules := order.Without(st.sortRules, field)
		if len(rules) == len(st.sortRules) {
			return false
		}
		st.sortRules = rules
		return true
	})
}

// ToggleSort 按 无 -> 升序 -> 降序 -> 无 切换字段的排序
func (s *Store) ToggleSort(field string) {
	s.update(func(st *state) bool {
		st.sortRules = order.Toggle(st.sortRules, field)
		return true
	})
}

// ClearSort 清空排序规则
func (s *Store) ClearSort() {
	s.update(func(st *state) bool {
		if len(st.sortRules) == 0 {
			return false
		}
		st.sortRules = nil
		return true
	})
}

// SortRules 当前排序规则
func (s *Store) SortRules() []order.Rule {
	var rules []order.Rule
	s.read(func(st *state) {
		rules = slices.Clone(st.sortRules)
	})
	return rules
}

// SetFilterConditions 替换全部筛选条件
func (s *Store) SetFilterConditions(conditions []filter.Condition) {
	s.update(func(st *state) bool {
		st.filterConditions = slices.Clone(conditions)
		return true
	})
}

// AddFilterCondition 追加筛选条件
func (s *Store) AddFilterCondition(c filter.Condition) {
	s.update(func(st *state) bool {
		st.filterConditions = append(slices.Clone(st.filterConditions), c)
		return true
	})
}

// RemoveFilterCondition 按下标删除筛选条件，同一列可以有多个条件
func (s *Store) RemoveFilterCondition(index int) {
	s.update(func(st *state) bool {
		if index < 0 || index >= len(st.filterConditions) {
			return false
		}
		st.filterConditions = slices.Delete(slices.Clone(st.filterConditions), index, index+1)
		return true
	})
}

// ClearFilters 清空筛选条件
func (s *Store) ClearFilters() {
	s.update(func(st *state) bool {
		if len(st.filterConditions) == 0 {
			return false
		}
		st.filterConditions = nil
		return true
	})
}

// FilterConditions 当前筛选条件
func (s *Store) FilterConditions() []filter.Condition {
	var conditions []filter.Condition
	s.read(func(st *state) {
		conditions = slices.Clone(st.filterConditions)
	})
	return conditions
}

func (s *Store) SetSortCaseSensitive(v bool) {
	s.update(func(st *state) bool {
		changed := st.sortCaseSensitive != v
		st.sortCaseSensitive = v
		return changed
	})
}

func (s *Store) SetSortNullsFirst(v bool) {
	s.update(func(st *state) bool {
		changed := st.sortNullsFirst != v
		st.sortNullsFirst = v
		return changed
	})
}

func (s *Store) SetFilterCaseSensitive(v bool) {
	s.update(func(st *state) bool {
		changed := st.filterCaseSensitive != v
		st.filterCaseSensitive = v
		return changed
	})
}

// SetColumnVisibility 设置列是否可见
func (s *Store) SetColumnVisibility(column string, visible bool) {
	s.update(func(st *state) bool {
		if v, ok := st.columnVisibility[column]; ok && v == visible {
			return false
		}
		st.columnVisibility = cloneVisibility(st.columnVisibility)
		st.columnVisibility[column] = visible
		return true
	})
}

// ToggleColumn 切换列的可见性
func (s *Store) ToggleColumn(column string) {
	s.update(func(st *state) bool {
		visible := isVisible(st.columnVisibility, column)
		st.columnVisibility = cloneVisibility(st.columnVisibility)
		st.columnVisibility[column] = !visible
		return true
	})
}

// IsColumnVisible 列是否可见，没有设置过的列默认可见
func (s *Store) IsColumnVisible(column string) bool {
	var visible bool
	s.read(func(st *state) {
		visible = isVisible(st.columnVisibility, column)
	})
	return visible
}

// ColumnVisibility 列可见性的拷贝
func (s *Store) ColumnVisibility() map[string]bool {
	var m map[string]bool
	s.read(func(st *state) {
		m = cloneVisibility(st.columnVisibility)
	})
	return m
}

func isVisible(m map[string]bool, column string) bool {
	v, ok := m[column]
	return !ok || v
}

// GetFilteredData 返回同时满足搜索词和全部筛选条件的行，保持输入顺序
func (s *Store) GetFilteredData(rows []grid.Row) []grid.Row {
	var predicate filter.Predicate
	s.read(func(st *state) {
		predicate = filter.And(
			s.searchPredicate(st.searchQuery),
			filter.Compile(slices.Clone(st.filterConditions), filter.Options{CaseSensitive: st.filterCaseSensitive}),
		)
	})
	return filter.Apply(rows, predicate)
}

// GetSortedData 按当前排序规则排序，不修改输入
func (s *Store) GetSortedData(rows []grid.Row) []grid.Row {
	var rules []order.Rule
	var opts order.Options
	s.read(func(st *state) {
		rules = slices.Clone(st.sortRules)
		opts = order.Options{CaseSensitive: st.sortCaseSensitive, NullsFirst: st.sortNullsFirst}
	})
	return order.Sort(rows, rules, opts)
}

// View 表格实际渲染的行：先筛选再排序
func (s *Store) View() []grid.Row {
	return s.GetSortedData(s.GetFilteredData(s.Data()))
}

// searchPredicate 搜索词为空时返回 nil，filter.And 会跳过 nil 谓词
func (s *Store) searchPredicate(q string) filter.Predicate {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	needle := filter.Fold(q)
	return func(row grid.Row) bool {
		if len(s.searchFields) == 0 {
			for _, v := range row {
				if searchable(v, needle) {
					return true
				}
			}
			return false
		}
		for _, field := range s.searchFields {
			if searchable(row.Value(field), needle) {
				return true
			}
		}
		return false
	}
}

// searchable 标量按文本匹配，切片逐个元素匹配，指针按指向的值匹配，嵌套对象不参与搜索
func searchable(v any, needle string) bool {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return false
	}

	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.Contains(filter.Fold(x), needle)
	case time.Time:
		return strings.Contains(filter.Fold(x.Format(time.RFC3339)), needle)
	case fmt.Stringer:
		return strings.Contains(filter.Fold(x.String()), needle)
	case map[string]any, grid.Row:
		return false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if searchable(rv.Index(i).Interface(), needle) {
				return true
			}
		}
		return false
	case reflect.Pointer:
		return searchable(rv.Elem().Interface(), needle)
	case reflect.Map, reflect.Struct, reflect.Func, reflect.Chan:
		return false
	case reflect.Float32, reflect.Float64:
		return strings.Contains(grid.FormatID(rv.Float()), needle)
	}
	return strings.Contains(filter.Fold(fmt.Sprint(v)), needle)
}
