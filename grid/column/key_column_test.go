package column

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/grid/validate"
	"github.com/hatlonely/gridx/log/logger"
	"github.com/hatlonely/gridx/log/writer"
	. "github.com/smartystreets/goconvey/convey"
)

func newBufferLogger() (logger.Logger, *writer.BufferWriter) {
	buf := writer.NewBufferWriter()
	l, err := logger.NewSLogWithWriter(buf, &logger.SLogOptions{Level: "debug", Format: "json"})
	if err != nil {
		panic(err)
	}
	return l, buf
}

type schemaPayload struct {
	schema validate.Schema
}

func (p schemaPayload) ValidationSchema() validate.Schema {
	return p.schema
}

func TestKeyColumnPaste(t *testing.T) {
	Convey("粘贴写回绑定字段", t, func() {
		identity := Column[string]{
			PasteValue: func(_ string, pasted any, _ int) (string, bool) {
				s, ok := pasted.(string)
				return s, ok
			},
		}
		email := KeyColumn("email", identity)
		So(email.ID, ShouldEqual, "email")
		So(email.Path, ShouldEqual, "email")

		row := grid.Row{"id": 1, "email": "old@x.com"}
		next, ok := email.PasteValue(row, "new@x.com", 0)
		So(ok, ShouldBeTrue)
		So(next, ShouldResemble, grid.Row{"id": 1, "email": "new@x.com"})
		So(row["email"], ShouldEqual, "old@x.com")

		Convey("inner 不接受时写入 nil", func() {
			next, ok := email.PasteValue(row, 42, 0)
			So(ok, ShouldBeTrue)
			So(next, ShouldResemble, grid.Row{"id": 1, "email": nil})
		})

		Convey("inner 没有 PasteValue 时写入 nil", func() {
			next, _ := KeyColumn("email", Column[string]{}).PasteValue(row, "x", 0)
			So(next["email"], ShouldBeNil)
			So(next["id"], ShouldEqual, 1)
		})
	})
}

func TestKeyColumnCopy(t *testing.T) {
	Convey("复制投影字段值", t, func() {
		var gotIndex int
		inner := Column[float64]{
			CopyValue: func(v float64, i int) any {
				gotIndex = i
				return fmt.Sprintf("%.2f", v)
			},
		}
		amount := KeyColumn("amount", inner)

		So(amount.CopyValue(grid.Row{"amount": 12.5}, 3), ShouldEqual, "12.50")
		So(gotIndex, ShouldEqual, 3)
		So(amount.CopyValue(grid.Row{"amount": 7}, 0), ShouldEqual, "7.00")
		So(amount.CopyValue(grid.Row{"amount": "oops"}, 0), ShouldEqual, "0.00")
		So(amount.CopyValue(grid.Row{}, 0), ShouldEqual, "0.00")

		So(KeyColumn("amount", Column[float64]{}).CopyValue(grid.Row{"amount": 1.0}, 0), ShouldBeNil)
	})
}

func TestKeyColumnDelete(t *testing.T) {
	Convey("删除经过校验", t, func() {
		l, buf := newBufferLogger()

		Convey("候选值未通过校验时行不变并记录诊断", func() {
			inner := TextColumn()
			inner.Schema = validate.Tag("required,min=1")
			inner.Logger = l
			name := KeyColumn("name", inner)

			row := grid.Row{"id": 1, "name": ""}
			next := name.DeleteValue(row, 0)
			So(next, ShouldResemble, grid.Row{"id": 1, "name": ""})
			So(sameRow(next, row), ShouldBeTrue)

			lines := buf.Lines()
			So(lines, ShouldHaveLength, 1)
			So(lines[0], ShouldContainSubstring, `"level":"WARN"`)
			So(lines[0], ShouldContainSubstring, `"column":"name"`)
			So(lines[0], ShouldContainSubstring, "required")
		})

		Convey("重复删除结果一致", func() {
			inner := TextColumn()
			inner.Schema = validate.Tag("required")
			inner.Logger = l
			name := KeyColumn("name", inner)

			row := grid.Row{"id": 1, "name": "Acme"}
			first := name.DeleteValue(row, 0)
			second := name.DeleteValue(row, 0)
			So(first, ShouldResemble, row)
			So(second, ShouldResemble, first)
			So(buf.Lines(), ShouldHaveLength, 2)
		})

		Convey("通过校验时写入候选值", func() {
			inner := TextColumn()
			inner.Schema = validate.Tag("max=10")
			inner.Logger = l
			next := KeyColumn("note", inner).DeleteValue(grid.Row{"id": 2, "note": "hello"}, 0)
			So(next, ShouldResemble, grid.Row{"id": 2, "note": ""})
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("没有校验规则时总是通过", func() {
			next := KeyColumn("qty", NumberColumn()).DeleteValue(grid.Row{"qty": 5.0}, 0)
			So(next, ShouldResemble, grid.Row{"qty": 0.0})
		})

		Convey("Payload 提供校验规则", func() {
			inner := TextColumn()
			inner.Payload = schemaPayload{schema: validate.Tag("required")}
			inner.Logger = l
			row := grid.Row{"code": "A"}
			So(KeyColumn("code", inner).DeleteValue(row, 0), ShouldResemble, row)
			So(buf.Lines(), ShouldHaveLength, 1)
		})

		Convey("inner 没有 DeleteValue 时候选值为 nil", func() {
			next := KeyColumn("tag", Column[string]{}).DeleteValue(grid.Row{"tag": "x"}, 0)
			So(next, ShouldResemble, grid.Row{"tag": nil})

			guarded := Column[string]{Schema: validate.Tag("required"), Logger: l}
			row := grid.Row{"tag": "x"}
			So(KeyColumn("tag", guarded).DeleteValue(row, 0), ShouldResemble, row)
		})
	})
}

func TestKeyColumnProps(t *testing.T) {
	Convey("属性投影", t, func() {
		inner := TextColumn()
		inner.Disabled = Computed(func(ctx CellContext[string]) bool {
			return strings.HasPrefix(ctx.Value, "locked")
		})
		inner.CellClassName = Static[CellContext[string]]("mono")
		adapted := KeyColumn("status", inner)

		So(adapted.Disabled.IsComputed(), ShouldBeTrue)
		So(adapted.Disabled.Resolve(CellContext[grid.Row]{Value: grid.Row{"status": "locked:paid"}}), ShouldBeTrue)
		So(adapted.Disabled.Resolve(CellContext[grid.Row]{Value: grid.Row{"status": "open"}}), ShouldBeFalse)
		So(adapted.Disabled.Resolve(CellContext[grid.Row]{Value: grid.Row{}}), ShouldBeFalse)

		So(adapted.CellClassName.IsComputed(), ShouldBeFalse)
		v, ok := adapted.CellClassName.Value()
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, "mono")

		So(adapted.IsCellEmpty.Resolve(CellContext[grid.Row]{Value: grid.Row{"status": ""}}), ShouldBeTrue)
		So(adapted.IsCellEmpty.Resolve(CellContext[grid.Row]{Value: grid.Row{"status": "x"}}), ShouldBeFalse)

		Convey("计算属性收到行号", func() {
			inner := Column[string]{
				CellClassName: Computed(func(ctx CellContext[string]) string {
					return fmt.Sprintf("row-%d", ctx.Index)
				}),
			}
			adapted := KeyColumn("x", inner)
			So(adapted.CellClassName.Resolve(CellContext[grid.Row]{Value: grid.Row{}, Index: 4}), ShouldEqual, "row-4")
		})
	})
}

func TestKeyColumnFieldIsolation(t *testing.T) {
	Convey("粘贴后复制等价于直接作用在字段值上", t, func() {
		inner := TextColumn()
		inner.CopyValue = func(v string, _ int) any { return strings.ToUpper(v) }
		inner.PasteValue = func(v string, pasted any, _ int) (string, bool) {
			s, ok := pasted.(string)
			if !ok {
				return "", false
			}
			return v + "|" + s, true
		}
		adapted := KeyColumn("k", inner)

		rows := []grid.Row{
			{"id": 1, "k": "a", "other": "keep"},
			{"id": 2, "k": ""},
			{"id": 3},
			{"id": 4, "k": 12},
		}
		values := []any{"x", "", "long value", 3, nil}

		for _, row := range rows {
			for _, v := range values {
				pasted, _ := adapted.PasteValue(row, v, 0)
				got := adapted.CopyValue(pasted, 0)

				current := project[string](row["k"])
				var want any
				if next, ok := inner.PasteValue(current, v, 0); ok {
					want = inner.CopyValue(next, 0)
				} else {
					want = inner.CopyValue("", 0)
				}
				So(got, ShouldEqual, want)

				for field, value := range row {
					if field != "k" {
						So(pasted[field], ShouldEqual, value)
					}
				}
			}
		}
	})
}

func TestProject(t *testing.T) {
	Convey("字段值投影", t, func() {
		So(project[string]("a"), ShouldEqual, "a")
		So(project[string](nil), ShouldEqual, "")
		So(project[string](1), ShouldEqual, "")
		So(project[float64](3), ShouldEqual, 3.0)
		So(project[int](2.0), ShouldEqual, 2)
		So(project[int](3.7), ShouldEqual, 0)
		So(project[int8](300), ShouldEqual, int8(0))
		So(project[uint](-1), ShouldEqual, uint(0))
		So(project[uint](-1.0), ShouldEqual, uint(0))
		So(project[int64](float32(4)), ShouldEqual, int64(4))
		So(project[bool]("true"), ShouldBeFalse)
		So(project[[]string]([]string{"a"}), ShouldResemble, []string{"a"})
	})
}
