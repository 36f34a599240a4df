// Package query 描述与存储无关的查询条件
//
// 同一棵查询树可以翻译成 SQL 条件、Elasticsearch 查询体，
// 也可以直接在内存中对文档求值，表格筛选的服务端下推就建立在它之上。
package query

// QueryType 查询类型
type QueryType string

const (
	QueryTypeBool     QueryType = "bool"
	QueryTypeTerm     QueryType = "term"
	QueryTypeMatch    QueryType = "match"
	QueryTypeRange    QueryType = "range"
	QueryTypeExists   QueryType = "exists"
	QueryTypeWildcard QueryType = "wildcard"
	QueryTypePrefix   QueryType = "prefix"
)

// Document 可以按字段路径取值的文档，grid.Row 实现了该接口
type Document interface {
	Get(path string) (any, bool)
}

// Query 查询节点接口
type Query interface {
	Type() QueryType
	ToES() map[string]any
	ToSQL() (string, []any, error)
	// Match 在内存中对文档求值
	Match(doc Document) bool
}
