package filter

import (
	"reflect"
	"strings"

	"github.com/hatlonely/gridx/grid"
)

func number(rowValue any, filterValue any, op Operator) bool {
	left, ok := grid.ParseNumber(rowValue)
	if !ok {
		return false
	}

	if op == OpBetween {
		lo, hi, ok := parseRange(filterValue)
		if !ok {
			return false
		}
		return left >= lo && left <= hi
	}

	right, ok := grid.ParseNumber(filterValue)
	if !ok {
		return false
	}
	switch op {
	case OpEquals:
		return left == right
	case OpNotEquals:
		return left != right
	case OpGreaterThan:
		return left > right
	case OpGreaterThanOrEqual:
		return left >= right
	case OpLessThan:
		return left < right
	case OpLessThanOrEqual:
		return left <= right
	}
	return false
}

// parseRange 解析 between 的区间，支持 [lo, hi] 和 "lo,hi"，两端顺序不限
func parseRange(v any) (float64, float64, bool) {
	var bounds []any
	switch x := v.(type) {
	case string:
		parts := strings.Split(x, ",")
		for _, p := range parts {
			bounds = append(bounds, p)
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return 0, 0, false
		}
		for i := 0; i < rv.Len(); i++ {
			bounds = append(bounds, rv.Index(i).Interface())
		}
	}
	if len(bounds) != 2 {
		return 0, 0, false
	}

	lo, ok := grid.ParseNumber(bounds[0])
	if !ok {
		return 0, 0, false
	}
	hi, ok := grid.ParseNumber(bounds[1])
	if !ok {
		return 0, 0, false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}
