package query

import (
	"fmt"
	"strings"
)

// MatchQuery 子串匹配查询
type MatchQuery struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

func (q *MatchQuery) Type() QueryType {
	return QueryTypeMatch
}

func (q *MatchQuery) ToES() map[string]any {
	return map[string]any{
		"match": map[string]any{
			q.Field: q.Value,
		},
	}
}

func (q *MatchQuery) ToSQL() (string, []any, error) {
	return likeSQL(q.Field, "%"+escapeLike(fmt.Sprint(q.Value))+"%")
}

func (q *MatchQuery) Match(doc Document) bool {
	v, ok := doc.Get(q.Field)
	if !ok || v == nil {
		return false
	}
	return strings.Contains(fmt.Sprint(v), fmt.Sprint(q.Value))
}
