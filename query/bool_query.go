package query

import (
	"fmt"
	"strings"
)

// BoolQuery 布尔查询
type BoolQuery struct {
	Must           []Query `json:"must,omitempty"`
	Should         []Query `json:"should,omitempty"`
	MustNot        []Query `json:"must_not,omitempty"`
	Filter         []Query `json:"filter,omitempty"`
	MinShouldMatch *int    `json:"minimum_should_match,omitempty"`
}

func (q *BoolQuery) Type() QueryType {
	return QueryTypeBool
}

// Empty 没有任何子条件
func (q *BoolQuery) Empty() bool {
	return len(q.Must) == 0 && len(q.Should) == 0 && len(q.MustNot) == 0 && len(q.Filter) == 0
}

func toESList(queries []Query) []any {
	list := make([]any, len(queries))
	for i, query := range queries {
		list[i] = query.ToES()
	}
	return list
}

func (q *BoolQuery) ToES() map[string]any {
	boolQuery := make(map[string]any)

	if len(q.Must) > 0 {
		boolQuery["must"] = toESList(q.Must)
	}
	if len(q.Should) > 0 {
		boolQuery["should"] = toESList(q.Should)
	}
	if len(q.MustNot) > 0 {
		boolQuery["must_not"] = toESList(q.MustNot)
	}
	if len(q.Filter) > 0 {
		boolQuery["filter"] = toESList(q.Filter)
	}
	if q.MinShouldMatch != nil {
		boolQuery["minimum_should_match"] = *q.MinShouldMatch
	}

	return map[string]any{"bool": boolQuery}
}

func toSQLList(queries []Query, wrap string) ([]string, []any, error) {
	conditions := make([]string, 0, len(queries))
	var args []any
	for _, query := range queries {
		sql, queryArgs, err := query.ToSQL()
		if err != nil {
			return nil, nil, err
		}
		if wrap != "" {
			sql = fmt.Sprintf(wrap, sql)
		}
		conditions = append(conditions, sql)
		args = append(args, queryArgs...)
	}
	return conditions, args, nil
}

func (q *BoolQuery) ToSQL() (string, []any, error) {
	var conditions []string
	var args []any

	for _, group := range [][]Query{q.Must, q.Filter} {
		if len(group) == 0 {
			continue
		}
		sqls, groupArgs, err := toSQLList(group, "")
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, "("+strings.Join(sqls, " AND ")+")")
		args = append(args, groupArgs...)
	}

	if len(q.Should) > 0 {
		sqls, groupArgs, err := toSQLList(q.Should, "")
		if err != nil {
			return "", nil, err
		}
		if q.MinShouldMatch != nil && *q.MinShouldMatch > 1 {
			// 按命中条件计数
			cases := make([]string, len(sqls))
			for i, sql := range sqls {
				cases[i] = fmt.Sprintf("CASE WHEN (%s) THEN 1 ELSE 0 END", sql)
			}
			conditions = append(conditions, fmt.Sprintf("(%s) >= %d", strings.Join(cases, " + "), *q.MinShouldMatch))
		} else {
			conditions = append(conditions, "("+strings.Join(sqls, " OR ")+")")
		}
		args = append(args, groupArgs...)
	}

	if len(q.MustNot) > 0 {
		sqls, groupArgs, err := toSQLList(q.MustNot, "NOT (%s)")
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, "("+strings.Join(sqls, " AND ")+")")
		args = append(args, groupArgs...)
	}

	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " AND "), args, nil
}

func (q *BoolQuery) Match(doc Document) bool {
	for _, query := range q.Must {
		if !query.Match(doc) {
			return false
		}
	}
	for _, query := range q.Filter {
		if !query.Match(doc) {
			return false
		}
	}
	for _, query := range q.MustNot {
		if query.Match(doc) {
			return false
		}
	}
	if len(q.Should) == 0 {
		return true
	}

	need := 1
	if q.MinShouldMatch != nil && *q.MinShouldMatch > 1 {
		need = *q.MinShouldMatch
	}
	matched := 0
	for _, query := range q.Should {
		if query.Match(doc) {
			matched++
		}
	}
	return matched >= need
}
