package query

import (
	"fmt"
	"strings"
)

// RangeQuery 范围查询
type RangeQuery struct {
	Field string         `json:"field"`
	Gt    any            `json:"gt,omitempty"`
	Gte   any            `json:"gte,omitempty"`
	Lt    any            `json:"lt,omitempty"`
	Lte   any            `json:"lte,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

func (q *RangeQuery) Type() QueryType {
	return QueryTypeRange
}

func (q *RangeQuery) ToES() map[string]any {
	rangeQuery := make(map[string]any)
	if q.Gt != nil {
		rangeQuery["gt"] = q.Gt
	}
	if q.Gte != nil {
		rangeQuery["gte"] = q.Gte
	}
	if q.Lt != nil {
		rangeQuery["lt"] = q.Lt
	}
	if q.Lte != nil {
		rangeQuery["lte"] = q.Lte
	}
	// 额外字段，例如 format
	for k, v := range q.Extra {
		rangeQuery[k] = v
	}

	return map[string]any{
		"range": map[string]any{
			q.Field: rangeQuery,
		},
	}
}

type bound struct {
	op    string
	value any
}

func (q *RangeQuery) bounds() []bound {
	var bounds []bound
	for _, b := range []bound{{">", q.Gt}, {">=", q.Gte}, {"<", q.Lt}, {"<=", q.Lte}} {
		if b.value != nil {
			bounds = append(bounds, b)
		}
	}
	return bounds
}

func (q *RangeQuery) ToSQL() (string, []any, error) {
	if err := ValidateField(q.Field); err != nil {
		return "", nil, err
	}

	var conditions []string
	var args []any
	for _, b := range q.bounds() {
		conditions = append(conditions, fmt.Sprintf("%s %s ?", q.Field, b.op))
		args = append(args, b.value)
	}
	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " AND "), args, nil
}

func (q *RangeQuery) Match(doc Document) bool {
	v, ok := doc.Get(q.Field)
	if !ok || v == nil {
		return false
	}
	for _, b := range q.bounds() {
		c, ok := compare(v, b.value)
		if !ok {
			return false
		}
		switch b.op {
		case ">":
			ok = c > 0
		case ">=":
			ok = c >= 0
		case "<":
			ok = c < 0
		case "<=":
			ok = c <= 0
		}
		if !ok {
			return false
		}
	}
	return true
}
