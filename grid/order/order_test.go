package order

import (
	"math/rand"
	"testing"
	"time"

	"github.com/hatlonely/gridx/grid"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
)

func ids(rows []grid.Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func TestSort(t *testing.T) {
	Convey("排序", t, func() {
		Convey("不区分大小写且相等时保持原顺序", func() {
			rows := []grid.Row{{"id": 1, "name": "b"}, {"id": 2, "name": "a"}, {"id": 3, "name": "a"}}
			out := Sort(rows, []Rule{{Field: "name", Direction: Asc}}, Options{})
			So(ids(out), ShouldResemble, []any{2, 3, 1})
			So(ids(rows), ShouldResemble, []any{1, 2, 3})
		})

		Convey("大小写", func() {
			rows := []grid.Row{{"id": 1, "name": "b"}, {"id": 2, "name": "B"}, {"id": 3, "name": "a"}}
			So(ids(Sort(rows, []Rule{{Field: "name"}}, Options{})), ShouldResemble, []any{3, 1, 2})
			So(ids(Sort(rows, []Rule{{Field: "name"}}, Options{CaseSensitive: true})), ShouldResemble, []any{2, 3, 1})
		})

		Convey("空值位置与方向无关", func() {
			rows := []grid.Row{{"id": 1, "n": 2}, {"id": 2}, {"id": 3, "n": 1}, {"id": 4, "n": nil}}
			So(ids(Sort(rows, []Rule{{Field: "n", Direction: Asc}}, Options{})), ShouldResemble, []any{3, 1, 2, 4})
			So(ids(Sort(rows, []Rule{{Field: "n", Direction: Desc}}, Options{})), ShouldResemble, []any{1, 3, 2, 4})
			So(ids(Sort(rows, []Rule{{Field: "n", Direction: Asc}}, Options{NullsFirst: true})), ShouldResemble, []any{2, 4, 3, 1})
			So(ids(Sort(rows, []Rule{{Field: "n", Direction: Desc}}, Options{NullsFirst: true})), ShouldResemble, []any{2, 4, 1, 3})
		})

		Convey("多键排序", func() {
			rows := []grid.Row{
				{"id": 1, "status": "paid", "total": 10.0},
				{"id": 2, "status": "draft", "total": 30.0},
				{"id": 3, "status": "paid", "total": 50.0},
				{"id": 4, "status": "draft", "total": 30.0},
			}
			out := Sort(rows, []Rule{{Field: "status", Direction: Asc}, {Field: "total", Direction: Desc}}, Options{})
			So(ids(out), ShouldResemble, []any{2, 4, 3, 1})
		})

		Convey("数值跨类型、时间与布尔", func() {
			rows := []grid.Row{{"id": 1, "v": 2.5}, {"id": 2, "v": 3}, {"id": 3, "v": int64(1)}}
			So(ids(Sort(rows, []Rule{{Field: "v"}}, Options{})), ShouldResemble, []any{3, 1, 2})

			day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			rows = []grid.Row{{"id": 1, "at": day.Add(time.Hour)}, {"id": 2, "at": day}}
			So(ids(Sort(rows, []Rule{{Field: "at"}}, Options{})), ShouldResemble, []any{2, 1})

			rows = []grid.Row{{"id": 1, "ok": true}, {"id": 2, "ok": false}}
			So(ids(Sort(rows, []Rule{{Field: "ok"}}, Options{})), ShouldResemble, []any{2, 1})
		})

		Convey("不同类型按类型排列", func() {
			rows := []grid.Row{{"id": 1, "v": "x"}, {"id": 2, "v": 5}, {"id": 3, "v": true}, {"id": 4, "v": []any{1}}}
			So(ids(Sort(rows, []Rule{{Field: "v"}}, Options{})), ShouldResemble, []any{3, 2, 1, 4})
		})

		Convey("无法识别的方向按升序", func() {
			rows := []grid.Row{{"id": 1, "n": 2}, {"id": 2, "n": 1}}
			So(ids(Sort(rows, []Rule{{Field: "n", Direction: "sideways"}}, Options{})), ShouldResemble, []any{2, 1})
			So(ids(Sort(rows, []Rule{{Field: "n", Direction: "DESC"}}, Options{})), ShouldResemble, []any{1, 2})
		})

		Convey("嵌套字段", func() {
			rows := []grid.Row{
				{"id": 1, "client": map[string]any{"name": "Zed"}},
				{"id": 2, "client": map[string]any{"name": "amy"}},
			}
			So(ids(Sort(rows, []Rule{{Field: "client.name"}}, Options{})), ShouldResemble, []any{2, 1})
		})

		Convey("没有规则时保持原顺序", func() {
			rows := []grid.Row{{"id": 2}, {"id": 1}}
			So(ids(Sort(rows, nil, Options{})), ShouldResemble, []any{2, 1})
			So(Sort(nil, nil, Options{}), ShouldBeEmpty)
		})
	})
}

func randomRows(r *rand.Rand, n int) []grid.Row {
	names := []string{"a", "A", "b", "B", "c", ""}
	rows := make([]grid.Row, n)
	for i := range rows {
		row := grid.Row{"id": i}
		switch r.Intn(4) {
		case 0:
		case 1:
			row["f"] = nil
		default:
			row["f"] = names[r.Intn(len(names))]
		}
		row["g"] = r.Intn(3)
		rows[i] = row
	}
	return rows
}

func TestSortProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		rows := randomRows(r, 30)
		for _, opts := range []Options{{}, {CaseSensitive: true}, {NullsFirst: true}} {
			rules := []Rule{{Field: "f", Direction: Asc}}

			first := Sort(rows, rules, opts)
			second := Sort(rows, rules, opts)
			assert.Equal(t, ids(first), ids(second), "sorting twice yields the same order")

			for i := 0; i+1 < len(first); i++ {
				a, b := key(first[i].Value("f"), opts), key(first[i+1].Value("f"), opts)
				assert.LessOrEqual(t, compareKeys(a, b, false, opts.NullsFirst), 0)
				if compareKeys(a, b, false, opts.NullsFirst) == 0 {
					assert.Less(t, first[i]["id"].(int), first[i+1]["id"].(int), "ties keep original order")
				}
			}

			multi := Sort(rows, []Rule{{Field: "g", Direction: Desc}, {Field: "f"}}, opts)
			assert.Len(t, multi, len(rows))
			for i := 0; i+1 < len(multi); i++ {
				assert.GreaterOrEqual(t, multi[i]["g"].(int), multi[i+1]["g"].(int))
			}
		}
	}
}

func TestToggle(t *testing.T) {
	Convey("切换排序", t, func() {
		rules := Toggle(nil, "name")
		So(rules, ShouldResemble, []Rule{{Field: "name", Direction: Asc}})
		rules = Toggle(rules, "name")
		So(rules, ShouldResemble, []Rule{{Field: "name", Direction: Desc}})
		rules = Toggle(append(rules, Rule{Field: "total", Direction: Asc}), "name")
		So(rules, ShouldResemble, []Rule{{Field: "total", Direction: Asc}})

		original := []Rule{{Field: "a"}, {Field: "b"}}
		So(Without(original, "a"), ShouldResemble, []Rule{{Field: "b"}})
		So(original, ShouldHaveLength, 2)
		So(original[0].Field, ShouldEqual, "a")
	})
}
