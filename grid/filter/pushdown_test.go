package filter

import (
	"testing"

	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/query"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTranslate(t *testing.T) {
	Convey("翻译成查询", t, func() {
		Convey("日期按天翻译成区间", func() {
			q, err := Translate(Condition{Column: "due", Operator: OpEquals, Value: "2024-01-10T15:00:00Z", Type: TypeDate}, Options{})
			So(err, ShouldBeNil)
			So(q, ShouldResemble, &query.RangeQuery{Field: "due", Gte: "2024-01-10", Lt: "2024-01-11"})

			q, _ = Translate(Condition{Column: "due", Operator: OpBefore, Value: "2024-01-10", Type: TypeDate}, Options{})
			So(q, ShouldResemble, &query.RangeQuery{Field: "due", Lt: "2024-01-10"})

			q, _ = Translate(Condition{Column: "due", Operator: OpAfter, Value: "2024-12-31", Type: TypeDate}, Options{})
			So(q, ShouldResemble, &query.RangeQuery{Field: "due", Gte: "2025-01-01"})

			_, err = Translate(Condition{Column: "due", Operator: OpEquals, Value: "bad", Type: TypeDate}, Options{})
			So(errors.Is(err, ErrUntranslatable), ShouldBeTrue)
		})

		Convey("数值", func() {
			q, _ := Translate(Condition{Column: "total", Operator: OpBetween, Value: "10,1", Type: TypeNumber}, Options{})
			So(q, ShouldResemble, &query.RangeQuery{Field: "total", Gte: 1.0, Lte: 10.0})

			q, _ = Translate(Condition{Column: "total", Operator: OpNotEquals, Value: 3, Type: TypeNumber}, Options{})
			sql, args, err := q.ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "(NOT (total = ?))")
			So(args, ShouldResemble, []any{3.0})
		})

		Convey("文本只在区分大小写时下推正向匹配", func() {
			c := Condition{Column: "name", Operator: OpContains, Value: "acme", Type: TypeText}
			_, err := Translate(c, Options{})
			So(errors.Is(err, ErrUntranslatable), ShouldBeTrue)

			q, err := Translate(c, Options{CaseSensitive: true})
			So(err, ShouldBeNil)
			So(q, ShouldResemble, &query.MatchQuery{Field: "name", Value: "acme"})

			_, err = Translate(Condition{Column: "name", Operator: OpNotContains, Value: "x", Type: TypeText}, Options{CaseSensitive: true})
			So(errors.Is(err, ErrUntranslatable), ShouldBeTrue)

			q, _ = Translate(Condition{Column: "name", Operator: OpEndsWith, Value: "Ltd", Type: TypeText}, Options{CaseSensitive: true})
			So(q, ShouldResemble, &query.WildcardQuery{Field: "name", Value: "*Ltd"})
		})

		Convey("空值判断", func() {
			q, err := Translate(Condition{Column: "qty", Operator: OpIsEmpty, Type: TypeNumber}, Options{})
			So(err, ShouldBeNil)
			sql, args, err := q.ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "((NOT (qty IS NOT NULL)) OR qty = ?)")
			So(args, ShouldResemble, []any{0})
		})

		Convey("非法列名与未知操作符", func() {
			_, err := Translate(Condition{Column: "a; drop", Operator: OpIsEmpty}, Options{})
			So(errors.Is(err, ErrUntranslatable), ShouldBeTrue)
			_, err = Translate(Condition{Column: "a", Operator: "??", Type: TypeNumber, Value: 1}, Options{})
			So(errors.Is(err, ErrUntranslatable), ShouldBeTrue)
		})
	})
}

func TestToQuery(t *testing.T) {
	Convey("下推结果是本地结果的超集", t, func() {
		rows := []grid.Row{
			{"id": 1, "name": "Acme", "total": 150.0, "due": "2024-01-05T23:00:00Z", "status": "paid", "vip": true},
			{"id": 2, "name": "acme", "total": 50.0, "due": "2024-02-01", "status": "sent", "vip": false},
			{"id": 3, "name": "Globex", "total": 300.0, "due": "", "status": "paid", "vip": nil},
			{"id": 4, "name": "", "total": nil, "due": nil, "status": nil},
			{"id": 5, "name": "Initech", "total": "12", "due": "2024-01-10", "status": "void", "vip": true},
		}
		conditionSets := [][]Condition{
			{{Column: "due", Operator: OpBefore, Value: "2024-01-10", Type: TypeDate}},
			{{Column: "due", Operator: OpEquals, Value: "2024-01-10", Type: TypeDate}},
			{{Column: "due", Operator: OpAfter, Value: "2024-01-09", Type: TypeDate}},
			{{Column: "due", Operator: OpIsEmpty, Type: TypeDate}},
			{{Column: "due", Operator: OpIsNotEmpty, Type: TypeDate}},
			{{Column: "total", Operator: OpGreaterThanOrEqual, Value: 100, Type: TypeNumber}},
			{{Column: "status", Operator: OpIsAnyOf, Value: []string{"paid", "void"}, Type: TypeSelect}},
			{{Column: "status", Operator: OpIsNoneOf, Value: "paid", Type: TypeSelect}},
			{{Column: "vip", Operator: OpIsTrue, Type: TypeBoolean}},
			{
				{Column: "name", Operator: OpStartsWith, Value: "A", Type: TypeText},
				{Column: "name", Operator: OpNotContains, Value: "x", Type: TypeText},
			},
		}

		for _, conditions := range conditionSets {
			opts := Options{CaseSensitive: true}
			bq, local := ToQuery(conditions, opts)
			So(len(bq.Must)+len(local), ShouldEqual, len(conditions))

			predicate := Compile(conditions, opts)
			for _, row := range rows {
				if predicate(row) {
					So(bq.Match(row), ShouldBeTrue)
				}
			}
		}

		Convey("区分大小写的文本条件被下推", func() {
			bq, local := ToQuery(conditionSets[9], Options{CaseSensitive: true})
			So(bq.Must, ShouldHaveLength, 1)
			So(local, ShouldHaveLength, 1)
			So(local[0].Operator, ShouldEqual, OpNotContains)
		})
	})
}
