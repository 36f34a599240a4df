package filter

import (
	"github.com/hatlonely/gridx/grid"
)

// Date 日期操作符族
//
// is_empty / is_not_empty 与类型和筛选值无关。
// equals / before / after 要求 typ 为 date，两侧都能解析到天，否则不匹配。
func Date(rowValue any, filterValue any, op Operator, typ Type) bool {
	switch op {
	case OpIsEmpty:
		return grid.IsEmpty(rowValue)
	case OpIsNotEmpty:
		return !grid.IsEmpty(rowValue)
	case OpEquals, OpBefore, OpAfter:
	default:
		return false
	}

	if typ != TypeDate {
		return false
	}
	left, ok := grid.ParseDay(rowValue)
	if !ok {
		return false
	}
	right, ok := grid.ParseDay(filterValue)
	if !ok {
		return false
	}

	c := left.Compare(right)
	switch op {
	case OpEquals:
		return c == 0
	case OpBefore:
		return c < 0
	default:
		return c > 0
	}
}
