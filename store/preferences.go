package store

import (
	"context"
	"slices"

	"github.com/hatlonely/gridx/prefs"
	"github.com/pkg/errors"
)

// Preferences 导出当前的排序、筛选和列可见性设置
func (s *Store) Preferences() *prefs.Preferences {
	p := &prefs.Preferences{}
	s.read(func(st *state) {
		p.SortRules = slices.Clone(st.sortRules)
		p.FilterConditions = slices.Clone(st.filterConditions)
		p.ColumnVisibility = cloneVisibility(st.columnVisibility)
		p.SortCaseSensitive = st.sortCaseSensitive
		p.SortNullsFirst = st.sortNullsFirst
		p.FilterCaseSensitive = st.filterCaseSensitive
	})
	return p
}

// ApplyPreferences 用 p 覆盖排序、筛选和列可见性，数据、选择和搜索词不变
func (s *Store) ApplyPreferences(p *prefs.Preferences) {
	if p == nil {
		return
	}
	s.update(func(st *state) bool {
		st.sortRules = slices.Clone(p.SortRules)
		st.filterConditions = slices.Clone(p.FilterConditions)
		st.columnVisibility = cloneVisibility(p.ColumnVisibility)
		st.sortCaseSensitive = p.SortCaseSensitive
		st.sortNullsFirst = p.SortNullsFirst
		st.filterCaseSensitive = p.FilterCaseSensitive
		return true
	})
}

// LoadPreferences 从偏好存储加载并应用，没有保存过时保持当前设置
func (s *Store) LoadPreferences(ctx context.Context, ps prefs.Store, scope prefs.Scope) error {
	if scope.Entity == "" {
		scope.Entity = s.entity
	}
	p, err := ps.Load(ctx, scope)
	if errors.Is(err, prefs.ErrNotFound) {
		s.logger.DebugContext(ctx, "no saved preferences", "scope", scope.Key())
		return nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "load preferences failed", "scope", scope.Key(), "error", err.Error())
		return errors.WithMessage(err, "prefs.Store.Load failed")
	}
	s.ApplyPreferences(p)
	return nil
}

// SavePreferences 保存当前设置
func (s *Store) SavePreferences(ctx context.Context, ps prefs.Store, scope prefs.Scope) error {
	if scope.Entity == "" {
		scope.Entity = s.entity
	}
	if err := ps.Save(ctx, scope, s.Preferences()); err != nil {
		s.logger.WarnContext(ctx, "save preferences failed", "scope", scope.Key(), "error", err.Error())
		return errors.WithMessage(err, "prefs.Store.Save failed")
	}
	return nil
}
