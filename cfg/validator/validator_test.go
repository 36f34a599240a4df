package validator

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidateStruct(t *testing.T) {
	Convey("Validator 结构体校验测试", t, func() {
		type Address struct {
			Street string `validate:"required"`
			City   string `validate:"required"`
		}

		type User struct {
			Name    string  `cfg:"name" validate:"required,min=2,max=50"`
			Email   string  `json:"email" validate:"required,email"`
			Age     int     `validate:"min=0,max=150"`
			Address Address `cfg:"address"`
		}

		valid := User{Name: "John Doe", Email: "john@example.com", Age: 30, Address: Address{Street: "s", City: "c"}}

		Convey("有效的结构体校验", func() {
			So(ValidateStruct(&valid), ShouldBeNil)
			So(ValidateStruct(valid), ShouldBeNil)
		})

		Convey("校验失败 - 必填字段为空", func() {
			user := valid
			user.Name = ""
			err := ValidateStruct(&user)
			So(err, ShouldNotBeNil)
			So(Messages(err), ShouldResemble, []string{"name does not satisfy required"})
		})

		Convey("校验失败 - 邮箱格式错误与嵌套字段", func() {
			user := valid
			user.Email = "invalid-email"
			user.Address.City = ""
			messages := Messages(ValidateStruct(&user))
			So(messages, ShouldHaveLength, 2)
			So(messages, ShouldContain, "email does not satisfy email")
			So(messages, ShouldContain, "address.City does not satisfy required")
		})

		Convey("非结构体与 nil 直接通过", func() {
			var nilUser *User
			So(ValidateStruct(nil), ShouldBeNil)
			So(ValidateStruct(nilUser), ShouldBeNil)
			So(ValidateStruct(42), ShouldBeNil)
			So(ValidateStruct(time.Now()), ShouldBeNil)
			pp := &valid
			So(ValidateStruct(&pp), ShouldBeNil)
		})
	})
}

func TestValidateVar(t *testing.T) {
	Convey("单值校验", t, func() {
		So(ValidateVar("abc", "required,min=1"), ShouldBeNil)

		err := ValidateVar("", "required,min=1")
		So(err, ShouldNotBeNil)
		So(Messages(err), ShouldResemble, []string{"value  does not satisfy required"})

		err = ValidateVar(5, "max=3")
		So(Messages(err), ShouldResemble, []string{"value 5 does not satisfy max=3"})

		Convey("非法标签不会 panic", func() {
			err := ValidateVar("x", "no_such_rule")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid validation tag")
			So(Messages(err), ShouldHaveLength, 1)
		})

		So(Messages(nil), ShouldBeNil)
	})
}
