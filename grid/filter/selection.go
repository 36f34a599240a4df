package filter

import (
	"reflect"
	"slices"
	"strings"
)

// values 将值展开成字符串列表，逗号分隔的文本会被拆开
func values(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if x == "" {
			return nil
		}
		parts := strings.Split(x, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	case []string:
		return x
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, textOf(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{textOf(v)}
}

// rowValues 行里的选择值，多选字段是切片
func rowValues(v any) []string {
	if s, ok := v.(string); ok {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	return values(v)
}

func selection(rowValue any, filterValue any, op Operator) bool {
	current := rowValues(rowValue)

	switch op {
	case OpIs:
		target, ok := filterValue.(string)
		if !ok {
			target = textOf(filterValue)
		}
		return slices.Contains(current, target)
	case OpIsNot:
		target, ok := filterValue.(string)
		if !ok {
			target = textOf(filterValue)
		}
		return len(current) > 0 && !slices.Contains(current, target)
	case OpIsAnyOf, OpIsNoneOf:
		set := values(filterValue)
		if len(set) == 0 {
			return false
		}
		hit := slices.ContainsFunc(current, func(s string) bool {
			return slices.Contains(set, s)
		})
		if op == OpIsAnyOf {
			return hit
		}
		return len(current) > 0 && !hit
	}
	return false
}
