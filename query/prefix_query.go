package query

import (
	"fmt"
	"strings"
)

// PrefixQuery 前缀查询
type PrefixQuery struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (q *PrefixQuery) Type() QueryType {
	return QueryTypePrefix
}

func (q *PrefixQuery) ToES() map[string]any {
	return map[string]any{
		"prefix": map[string]any{
			q.Field: q.Value,
		},
	}
}

func (q *PrefixQuery) ToSQL() (string, []any, error) {
	return likeSQL(q.Field, escapeLike(q.Value)+"%")
}

func (q *PrefixQuery) Match(doc Document) bool {
	v, ok := doc.Get(q.Field)
	if !ok || v == nil {
		return false
	}
	return strings.HasPrefix(fmt.Sprint(v), q.Value)
}
