package column

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hatlonely/gridx/grid"
)

// TextColumn 文本列，删除得到空串，粘贴任意值的文本形式
func TextColumn() Column[string] {
	return Column[string]{
		Component: ComponentFunc[string](func(p CellProps[string]) string {
			return p.Value
		}),
		CopyValue: func(value string, _ int) any {
			return value
		},
		DeleteValue: func(string, int) string {
			return ""
		},
		PasteValue: func(_ string, pasted any, _ int) (string, bool) {
			if pasted == nil {
				return "", false
			}
			if s, ok := pasted.(string); ok {
				return s, true
			}
			return fmt.Sprint(pasted), true
		},
		IsCellEmpty: Computed(func(ctx CellContext[string]) bool {
			return ctx.Value == ""
		}),
	}
}

// NumberColumn 数值列，粘贴内容必须能解析成数字
func NumberColumn() Column[float64] {
	return Column[float64]{
		Component: ComponentFunc[float64](func(p CellProps[float64]) string {
			return strconv.FormatFloat(p.Value, 'f', -1, 64)
		}),
		CopyValue: func(value float64, _ int) any {
			return value
		},
		DeleteValue: func(float64, int) float64 {
			return 0
		},
		PasteValue: func(_ float64, pasted any, _ int) (float64, bool) {
			if s, ok := pasted.(string); ok {
				// 粘贴的文本可能带千分位
				pasted = strings.ReplaceAll(s, ",", "")
			}
			return grid.ParseNumber(pasted)
		},
		IsCellEmpty: Computed(func(ctx CellContext[float64]) bool {
			return ctx.Value == 0
		}),
	}
}

// CheckboxColumn 复选框列
func CheckboxColumn() Column[bool] {
	return Column[bool]{
		Component: ComponentFunc[bool](func(p CellProps[bool]) string {
			if p.Value {
				return "[x]"
			}
			return "[ ]"
		}),
		CopyValue: func(value bool, _ int) any {
			return value
		},
		DeleteValue: func(bool, int) bool {
			return false
		},
		PasteValue: func(_ bool, pasted any, _ int) (bool, bool) {
			switch v := pasted.(type) {
			case bool:
				return v, true
			case string:
				switch strings.ToLower(strings.TrimSpace(v)) {
				case "true", "1", "yes", "y", "x", "on":
					return true, true
				case "false", "0", "no", "n", "", "off":
					return false, true
				}
			}
			if f, ok := grid.Number(pasted); ok {
				return f != 0, true
			}
			return false, false
		},
		IsCellEmpty: Static[CellContext[bool]](false),
	}
}

// DateColumn 日期列，值保存为 YYYY-MM-DD
func DateColumn() Column[string] {
	return Column[string]{
		Component: ComponentFunc[string](func(p CellProps[string]) string {
			return p.Value
		}),
		CopyValue: func(value string, _ int) any {
			return value
		},
		DeleteValue: func(string, int) string {
			return ""
		},
		PasteValue: func(_ string, pasted any, _ int) (string, bool) {
			t, ok := grid.ParseDay(pasted)
			if !ok {
				return "", false
			}
			return t.Format(grid.DayLayout), true
		},
		IsCellEmpty: Computed(func(ctx CellContext[string]) bool {
			return ctx.Value == ""
		}),
	}
}

// SelectColumn 下拉选择列，只接受 choices 中的值
func SelectColumn(choices ...string) Column[string] {
	c := TextColumn()
	c.Payload = choices
	c.PasteValue = func(_ string, pasted any, _ int) (string, bool) {
		s, ok := pasted.(string)
		if !ok {
			return "", false
		}
		s = strings.TrimSpace(s)
		if !slices.Contains(choices, s) {
			return "", false
		}
		return s, true
	}
	return c
}
