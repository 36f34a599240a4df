// Package order 实现表格的多键排序
//
// 规则按顺序生效，第一条是主键。空值的位置由 NullsFirst 决定，与方向无关；
// 所有规则都相等时按原始下标排序，因此结果是确定的全序。
package order

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hatlonely/gridx/grid"
	"golang.org/x/text/cases"
)

// Direction 排序方向
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Rule 排序规则
type Rule struct {
	Field     string    `json:"field" cfg:"field" msgpack:"field" bson:"field"`
	Direction Direction `json:"direction" cfg:"direction" msgpack:"direction" bson:"direction"`
}

// Descending 方向为 desc 时为 true，无法识别的方向按升序处理
func (r Rule) Descending() bool {
	return strings.EqualFold(string(r.Direction), string(Desc))
}

// Options 排序选项
type Options struct {
	CaseSensitive bool
	NullsFirst    bool
}

// Sort 返回排序后的新切片，不修改输入
func Sort(rows []grid.Row, rules []Rule, opts Options) []grid.Row {
	type entry struct {
		row   grid.Row
		index int
		keys  []any
	}

	entries := make([]entry, len(rows))
	for i, row := range rows {
		keys := make([]any, len(rules))
		for j, rule := range rules {
			keys[j] = key(row.Value(rule.Field), opts)
		}
		entries[i] = entry{row: row, index: i, keys: keys}
	}

	slices.SortFunc(entries, func(a, b entry) int {
		for j, rule := range rules {
			if c := compareKeys(a.keys[j], b.keys[j], rule.Descending(), opts.NullsFirst); c != 0 {
				return c
			}
		}
		return a.index - b.index
	})

	out := make([]grid.Row, len(entries))
	for i, e := range entries {
		out[i] = e.row
	}
	return out
}

// key 预先计算比较键，不区分大小写时对字符串做大小写折叠
func key(v any, opts Options) any {
	if s, ok := v.(string); ok && !opts.CaseSensitive {
		return cases.Fold().String(s)
	}
	return v
}

func compareKeys(a, b any, desc bool, nullsFirst bool) int {
	aNull, bNull := a == nil, b == nil
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		if nullsFirst {
			return -1
		}
		return 1
	case bNull:
		if nullsFirst {
			return 1
		}
		return -1
	}

	c := Compare(a, b)
	if desc {
		return -c
	}
	return c
}

// 不同类型之间的顺序
const (
	rankBool = iota
	rankNumber
	rankTime
	rankString
	rankOther
)

func rank(v any) int {
	switch v.(type) {
	case bool:
		return rankBool
	case time.Time:
		return rankTime
	case string:
		return rankString
	}
	if _, ok := grid.Number(v); ok {
		return rankNumber
	}
	return rankOther
}

// Compare 比较两个非空值
// 数值跨类型按大小比较，时间按先后，布尔 false 在前，字符串按字节序，不同类型按类型排列
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}

	switch ra {
	case rankBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		}
		return 1
	case rankNumber:
		af, _ := grid.Number(a)
		bf, _ := grid.Number(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case rankTime:
		return a.(time.Time).Compare(b.(time.Time))
	case rankString:
		return strings.Compare(a.(string), b.(string))
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// Toggle 切换字段的排序：无 -> 升序 -> 降序 -> 无
func Toggle(rules []Rule, field string) []Rule {
	out := slices.Clone(rules)
	for i, r := range out {
		if r.Field != field {
			continue
		}
		if r.Descending() {
			return slices.Delete(out, i, i+1)
		}
		out[i].Direction = Desc
		return out
	}
	return append(out, Rule{Field: field, Direction: Asc})
}

// Without 移除字段的排序规则
func Without(rules []Rule, field string) []Rule {
	return slices.DeleteFunc(slices.Clone(rules), func(r Rule) bool {
		return r.Field == field
	})
}
