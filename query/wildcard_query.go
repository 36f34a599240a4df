package query

import (
	"fmt"
	"strings"
)

// WildcardQuery 通配符查询，* 匹配任意数量字符，? 匹配单个字符
type WildcardQuery struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (q *WildcardQuery) Type() QueryType {
	return QueryTypeWildcard
}

func (q *WildcardQuery) ToES() map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			q.Field: q.Value,
		},
	}
}

func (q *WildcardQuery) ToSQL() (string, []any, error) {
	pattern := escapeLike(q.Value)
	pattern = strings.ReplaceAll(pattern, "*", "%")
	pattern = strings.ReplaceAll(pattern, "?", "_")
	return likeSQL(q.Field, pattern)
}

func (q *WildcardQuery) Match(doc Document) bool {
	v, ok := doc.Get(q.Field)
	if !ok || v == nil {
		return false
	}
	return wildcardMatch([]rune(q.Value), []rune(fmt.Sprint(v)))
}

func wildcardMatch(pattern, s []rune) bool {
	// 经典的回溯匹配，star 记录最近一个 * 的位置
	p, i := 0, 0
	star, mark := -1, 0
	for i < len(s) {
		switch {
		case p < len(pattern) && pattern[p] == '*':
			star, mark = p, i
			p++
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == s[i]):
			p++
			i++
		case star >= 0:
			p = star + 1
			mark++
			i = mark
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
