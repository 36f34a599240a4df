package filter

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

func textOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// Fold 大小写折叠，用于不区分大小写的比较
func Fold(s string) string {
	return cases.Fold().String(s)
}

func text(rowValue any, filterValue any, op Operator, caseSensitive bool) bool {
	left, right := textOf(rowValue), textOf(filterValue)
	if !caseSensitive {
		left, right = Fold(left), Fold(right)
	}

	switch op {
	case OpEquals:
		return left == right
	case OpNotEquals:
		return left != right
	case OpContains:
		return strings.Contains(left, right)
	case OpNotContains:
		return !strings.Contains(left, right)
	case OpStartsWith:
		return strings.HasPrefix(left, right)
	case OpEndsWith:
		return strings.HasSuffix(left, right)
	}
	return false
}
