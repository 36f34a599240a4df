package filter

import (
	"strings"

	"github.com/hatlonely/gridx/grid"
)

func parseBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
		return false, false
	}
	if f, ok := grid.Number(v); ok {
		return f != 0, true
	}
	return false, false
}

func boolean(rowValue any, op Operator) bool {
	b, ok := parseBool(rowValue)
	if !ok {
		return false
	}
	switch op {
	case OpIsTrue:
		return b
	case OpIsFalse:
		return !b
	}
	return false
}
