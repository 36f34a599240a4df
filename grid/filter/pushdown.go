package filter

import (
	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/query"
	"github.com/pkg/errors"
)

// ErrUntranslatable 条件无法等价或放宽地翻译成查询
var ErrUntranslatable = errors.New("condition cannot be pushed down")

// Translate 将条件翻译成查询
//
// 翻译结果在服务端选出的行是本地求值结果的超集，调用方仍需在本地再次求值。
// 无法满足这一点的条件返回 ErrUntranslatable。
func Translate(c Condition, opts Options) (query.Query, error) {
	if err := query.ValidateField(c.Column); err != nil {
		return nil, errors.WithMessage(ErrUntranslatable, err.Error())
	}

	switch c.Operator {
	case OpIsEmpty:
		return emptyQuery(c), nil
	case OpIsNotEmpty:
		return &query.BoolQuery{MustNot: []query.Query{emptyQuery(c)}}, nil
	}

	var q query.Query
	switch c.Type {
	case TypeDate:
		q = dateQuery(c)
	case TypeNumber:
		q = numberQuery(c)
	case TypeBoolean:
		q = booleanQuery(c)
	case TypeSelect:
		q = selectQuery(c)
	case TypeText, "":
		// 数据库的 LIKE 和排序规则可能不区分大小写，只有区分大小写的正向匹配才能放宽翻译
		if opts.CaseSensitive {
			q = textQuery(c)
		}
	}
	if q == nil {
		return nil, errors.WithMessagef(ErrUntranslatable, "column %q operator %q type %q", c.Column, c.Operator, c.Type)
	}
	return q, nil
}

// ToQuery 翻译全部条件，返回可下推的查询以及只能在本地求值的条件
func ToQuery(conditions []Condition, opts Options) (*query.BoolQuery, []Condition) {
	bq := &query.BoolQuery{}
	var local []Condition
	for _, c := range conditions {
		q, err := Translate(c, opts)
		if err != nil {
			local = append(local, c)
			continue
		}
		bq.Must = append(bq.Must, q)
	}
	return bq, local
}

// emptyQuery 字段为 NULL 或者为该类型的空值
func emptyQuery(c Condition) query.Query {
	var zero any = ""
	switch c.Type {
	case TypeNumber:
		zero = 0
	case TypeBoolean:
		zero = false
	}
	return &query.BoolQuery{Should: []query.Query{
		&query.BoolQuery{MustNot: []query.Query{&query.ExistsQuery{Field: c.Column}}},
		&query.TermQuery{Field: c.Column, Value: zero},
	}}
}

// dateQuery 日期按 ISO 文本比较，行值的前缀就是书写时的日期
func dateQuery(c Condition) query.Query {
	day, ok := grid.ParseDay(c.Value)
	if !ok {
		return nil
	}
	from := day.Format(grid.DayLayout)
	next := day.AddDate(0, 0, 1).Format(grid.DayLayout)

	switch c.Operator {
	case OpEquals:
		return &query.RangeQuery{Field: c.Column, Gte: from, Lt: next}
	case OpBefore:
		return &query.RangeQuery{Field: c.Column, Lt: from}
	case OpAfter:
		return &query.RangeQuery{Field: c.Column, Gte: next}
	}
	return nil
}

func numberQuery(c Condition) query.Query {
	if c.Operator == OpBetween {
		lo, hi, ok := parseRange(c.Value)
		if !ok {
			return nil
		}
		return &query.RangeQuery{Field: c.Column, Gte: lo, Lte: hi}
	}

	v, ok := grid.ParseNumber(c.Value)
	if !ok {
		return nil
	}
	switch c.Operator {
	case OpEquals:
		return &query.TermQuery{Field: c.Column, Value: v}
	case OpNotEquals:
		return &query.BoolQuery{MustNot: []query.Query{&query.TermQuery{Field: c.Column, Value: v}}}
	case OpGreaterThan:
		return &query.RangeQuery{Field: c.Column, Gt: v}
	case OpGreaterThanOrEqual:
		return &query.RangeQuery{Field: c.Column, Gte: v}
	case OpLessThan:
		return &query.RangeQuery{Field: c.Column, Lt: v}
	case OpLessThanOrEqual:
		return &query.RangeQuery{Field: c.Column, Lte: v}
	}
	return nil
}

func booleanQuery(c Condition) query.Query {
	switch c.Operator {
	case OpIsTrue:
		return &query.TermQuery{Field: c.Column, Value: true}
	case OpIsFalse:
		return &query.TermQuery{Field: c.Column, Value: false}
	}
	return nil
}

func selectQuery(c Condition) query.Query {
	switch c.Operator {
	case OpIs:
		return &query.TermQuery{Field: c.Column, Value: textOf(c.Value)}
	case OpIsNot:
		return &query.BoolQuery{MustNot: []query.Query{&query.TermQuery{Field: c.Column, Value: textOf(c.Value)}}}
	case OpIsAnyOf, OpIsNoneOf:
		set := values(c.Value)
		if len(set) == 0 {
			return nil
		}
		terms := make([]query.Query, len(set))
		for i, v := range set {
			terms[i] = &query.TermQuery{Field: c.Column, Value: v}
		}
		if c.Operator == OpIsAnyOf {
			return &query.BoolQuery{Should: terms}
		}
		return &query.BoolQuery{MustNot: terms}
	}
	return nil
}

func textQuery(c Condition) query.Query {
	v := textOf(c.Value)
	switch c.Operator {
	case OpEquals:
		return &query.TermQuery{Field: c.Column, Value: v}
	case OpContains:
		return &query.MatchQuery{Field: c.Column, Value: v}
	case OpStartsWith:
		return &query.PrefixQuery{Field: c.Column, Value: v}
	case OpEndsWith:
		return &query.WildcardQuery{Field: c.Column, Value: "*" + v}
	}
	return nil
}
