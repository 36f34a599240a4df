package query

import "fmt"

// ExistsQuery 字段存在查询
type ExistsQuery struct {
	Field string `json:"field"`
}

func (q *ExistsQuery) Type() QueryType {
	return QueryTypeExists
}

func (q *ExistsQuery) ToES() map[string]any {
	return map[string]any{
		"exists": map[string]any{
			"field": q.Field,
		},
	}
}

func (q *ExistsQuery) ToSQL() (string, []any, error) {
	if err := ValidateField(q.Field); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s IS NOT NULL", q.Field), nil, nil
}

func (q *ExistsQuery) Match(doc Document) bool {
	v, ok := doc.Get(q.Field)
	return ok && v != nil
}
