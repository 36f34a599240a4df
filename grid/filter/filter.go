// Package filter 实现表格筛选条件的求值
//
// 每个条件按 Type 分派到对应的操作符族，多个条件之间是 AND 关系。
// 未知的操作符、无法解析的值一律视为不匹配，筛选失败只会缩小结果集。
package filter

import (
	"github.com/hatlonely/gridx/grid"
)

// Operator 筛选操作符
type Operator string

const (
	OpIsEmpty    Operator = "is_empty"
	OpIsNotEmpty Operator = "is_not_empty"

	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not_equals"

	OpBefore Operator = "before"
	OpAfter  Operator = "after"

	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"

	OpGreaterThan        Operator = "greater_than"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThan           Operator = "less_than"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
	OpBetween            Operator = "between"

	OpIsTrue  Operator = "is_true"
	OpIsFalse Operator = "is_false"

	OpIs       Operator = "is"
	OpIsNot    Operator = "is_not"
	OpIsAnyOf  Operator = "is_any_of"
	OpIsNoneOf Operator = "is_none_of"
)

// Type 列的数据类型
type Type string

const (
	TypeText    Type = "text"
	TypeNumber  Type = "number"
	TypeDate    Type = "date"
	TypeBoolean Type = "boolean"
	TypeSelect  Type = "select"
)

// Condition 对某一列的筛选条件
type Condition struct {
	Column   string   `json:"column" cfg:"column" msgpack:"column" bson:"column"`
	Operator Operator `json:"operator" cfg:"operator" msgpack:"operator" bson:"operator"`
	Value    any      `json:"value,omitempty" cfg:"value" msgpack:"value,omitempty" bson:"value,omitempty"`
	Type     Type     `json:"type,omitempty" cfg:"type" msgpack:"type,omitempty" bson:"type,omitempty"`
}

// Options 求值选项
type Options struct {
	// 文本比较区分大小写
	CaseSensitive bool
}

// Predicate 行谓词
type Predicate func(row grid.Row) bool

// Match 判断行是否满足条件
func Match(c Condition, row grid.Row, opts Options) bool {
	value, _ := row.Get(c.Column)
	return Evaluate(c, value, opts)
}

// Evaluate 对单个字段值求条件
func Evaluate(c Condition, value any, opts Options) bool {
	switch c.Operator {
	case OpIsEmpty:
		return grid.IsEmpty(value)
	case OpIsNotEmpty:
		return !grid.IsEmpty(value)
	}

	switch c.Type {
	case TypeDate:
		return Date(value, c.Value, c.Operator, c.Type)
	case TypeNumber:
		return number(value, c.Value, c.Operator)
	case TypeBoolean:
		return boolean(value, c.Operator)
	case TypeSelect:
		return selection(value, c.Value, c.Operator)
	case TypeText, "":
		return text(value, c.Value, c.Operator, opts.CaseSensitive)
	}
	return false
}

// Compile 将条件列表编译成谓词，空列表总是匹配
func Compile(conditions []Condition, opts Options) Predicate {
	predicates := make([]Predicate, 0, len(conditions))
	for _, c := range conditions {
		predicates = append(predicates, func(row grid.Row) bool {
			return Match(c, row, opts)
		})
	}
	return And(predicates...)
}

// And 所有谓词都满足
func And(predicates ...Predicate) Predicate {
	return func(row grid.Row) bool {
		for _, p := range predicates {
			if p != nil && !p(row) {
				return false
			}
		}
		return true
	}
}

// Apply 返回满足谓词的行，保持原有顺序
func Apply(rows []grid.Row, predicate Predicate) []grid.Row {
	out := make([]grid.Row, 0, len(rows))
	for _, row := range rows {
		if predicate(row) {
			out = append(out, row)
		}
	}
	return out
}
