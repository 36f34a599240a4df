package main

import (
	"strings"

	"github.com/hatlonely/gridx/grid/filter"
	"github.com/hatlonely/gridx/grid/order"
	"github.com/hatlonely/gridx/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// viewFlags 视图设置相关的参数，query 和 prefs save 共用
type viewFlags struct {
	search        string
	filters       []string
	sorts         []string
	hide          []string
	show          []string
	caseSensitive bool
	nullsFirst    bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "filter condition column:operator[:type[:value]], repeatable")
	cmd.Flags().StringArrayVarP(&f.sorts, "sort", "s", nil, "sort rule field[:asc|desc], repeatable, earlier rules take precedence")
	cmd.Flags().StringArrayVar(&f.hide, "hide", nil, "hide column, repeatable")
	cmd.Flags().StringArrayVar(&f.show, "show", nil, "show column hidden by saved preferences, repeatable")
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "compare text case sensitively when filtering and sorting")
	cmd.Flags().BoolVar(&f.nullsFirst, "nulls-first", false, "place empty values before others when sorting")
}

// apply 把参数叠加到 store 当前的设置上
func (f *viewFlags) apply(cmd *cobra.Command, s *store.Store) error {
	if f.search != "" {
		s.SetSearchQuery(f.search)
	}
	for _, raw := range f.filters {
		c, err := parseCondition(raw)
		if err != nil {
			return err
		}
		s.AddFilterCondition(c)
	}
	for _, raw := range f.sorts {
		r, err := parseRule(raw)
		if err != nil {
			return err
		}
		s.AddSortRule(r)
	}
	for _, column := range f.hide {
		s.SetColumnVisibility(column, false)
	}
	for _, column := range f.show {
		s.SetColumnVisibility(column, true)
	}
	if cmd.Flags().Changed("case-sensitive") {
		s.SetFilterCaseSensitive(f.caseSensitive)
		s.SetSortCaseSensitive(f.caseSensitive)
	}
	if cmd.Flags().Changed("nulls-first") {
		s.SetSortNullsFirst(f.nullsFirst)
	}
	return nil
}

// parseCondition 解析 column:operator[:type[:value]]，value 中可以包含冒号
func parseCondition(raw string) (filter.Condition, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return filter.Condition{}, errors.Errorf("invalid filter %q, expected column:operator[:type[:value]]", raw)
	}
	c := filter.Condition{
		Column:   parts[0],
		Operator: filter.Operator(parts[1]),
	}
	if len(parts) > 2 {
		c.Type = filter.Type(parts[2])
	}
	if len(parts) > 3 {
		c.Value = parts[3]
	}
	return c, nil
}

func parseRule(raw string) (order.Rule, error) {
	field, dir, _ := strings.Cut(raw, ":")
	if field == "" {
		return order.Rule{}, errors.Errorf("invalid sort %q, expected field[:asc|desc]", raw)
	}
	switch order.Direction(strings.ToLower(dir)) {
	case "", order.Asc:
		return order.Rule{Field: field, Direction: order.Asc}, nil
	case order.Desc:
		return order.Rule{Field: field, Direction: order.Desc}, nil
	}
	return order.Rule{}, errors.Errorf("invalid sort direction %q in %q", dir, raw)
}
