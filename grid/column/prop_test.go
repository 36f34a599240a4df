package column

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestProp(t *testing.T) {
	Convey("Prop", t, func() {
		Convey("零值", func() {
			var p Prop[int, string]
			So(p.Resolve(1), ShouldEqual, "")
			So(p.IsComputed(), ShouldBeFalse)
		})

		Convey("固定值", func() {
			p := Static[int]("fixed")
			So(p.Resolve(1), ShouldEqual, "fixed")
			v, ok := p.Value()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "fixed")
		})

		Convey("计算值", func() {
			p := Computed(func(n int) bool { return n > 2 })
			So(p.IsComputed(), ShouldBeTrue)
			So(p.Resolve(1), ShouldBeFalse)
			So(p.Resolve(3), ShouldBeTrue)
			_, ok := p.Value()
			So(ok, ShouldBeFalse)
		})

		Convey("Project", func() {
			length := func(s string) int { return len(s) }

			computed := Project(Computed(func(n int) bool { return n > 2 }), length)
			So(computed.IsComputed(), ShouldBeTrue)
			So(computed.Resolve("ab"), ShouldBeFalse)
			So(computed.Resolve("abc"), ShouldBeTrue)

			calls := 0
			static := Project(Static[int](true), func(s string) int { calls++; return len(s) })
			So(static.IsComputed(), ShouldBeFalse)
			So(static.Resolve("x"), ShouldBeTrue)
			So(calls, ShouldEqual, 0)
		})
	})
}
