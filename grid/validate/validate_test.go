package validate

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValidate(t *testing.T) {
	Convey("Validate", t, func() {
		Convey("nil schema 总是通过", func() {
			So(Validate(nil, ""), ShouldBeNil)
			So(Validate(nil, nil), ShouldBeNil)
		})

		Convey("Tag 规则", func() {
			schema := Tag("required,min=1")
			So(Validate(schema, "a"), ShouldBeNil)

			err := Validate(schema, "")
			So(err, ShouldNotBeNil)
			var verr *ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Messages, ShouldHaveLength, 1)
			So(err.Error(), ShouldStartWith, "validation failed: ")

			result := schema.SafeParse("ok")
			So(result.Success, ShouldBeTrue)
			So(result.Data, ShouldEqual, "ok")
		})

		Convey("非法标签返回失败", func() {
			result := Tag("not_a_rule").SafeParse("x")
			So(result.Success, ShouldBeFalse)
			So(result.Errors, ShouldHaveLength, 1)
		})

		Convey("Struct 规则", func() {
			type invoice struct {
				Number string  `json:"number" validate:"required"`
				Total  float64 `json:"total" validate:"gte=0"`
			}
			So(Validate(Struct(), invoice{Number: "INV-1", Total: 10}), ShouldBeNil)

			err := Validate(Struct(), &invoice{Total: -1})
			var verr *ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Messages, ShouldResemble, []string{
				"number does not satisfy required",
				"total does not satisfy gte=0",
			})
		})

		Convey("Func 规则", func() {
			schema := Func(func(v any) error {
				if s, _ := v.(string); s == "" {
					return fmt.Errorf("email is required")
				}
				return nil
			})
			So(Validate(schema, "a@x.com"), ShouldBeNil)
			So(Validate(schema, nil).(*ValidationError).Messages, ShouldResemble, []string{"email is required"})
		})

		Convey("All 收集全部失败", func() {
			schema := All(
				Tag("required"),
				nil,
				Func(func(any) error { return fmt.Errorf("custom") }),
			)
			So(Validate(schema, "").(*ValidationError).Messages, ShouldHaveLength, 2)
			So(Validate(All(Tag("required")), "x"), ShouldBeNil)
		})

		Convey("没有消息的失败与带路径的问题", func() {
			So(Validate(schemaFunc(func(any) Result { return Result{} }), "x").(*ValidationError).Messages, ShouldResemble, []string{"invalid value"})

			pathSchema := schemaFunc(func(any) Result {
				return Result{Errors: []Issue{{Path: "lines[0].qty", Message: "must be positive"}}}
			})
			So(Validate(pathSchema, 0).(*ValidationError).Messages, ShouldResemble, []string{"lines[0].qty: must be positive"})
		})
	})
}

type schemaFunc func(any) Result

func (f schemaFunc) SafeParse(v any) Result { return f(v) }

