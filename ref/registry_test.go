package ref

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type endpoint struct {
	BaseURL string
	Entity  string
}

type endpointOptions struct {
	BaseURL string
	Entity  string
}

func newEndpoint(options *endpointOptions) (*endpoint, error) {
	if options.Entity == "" {
		return nil, errors.New("entity is required")
	}
	return &endpoint{BaseURL: options.BaseURL, Entity: options.Entity}, nil
}

func newDefaultEndpoint() *endpoint {
	return &endpoint{BaseURL: "http://localhost", Entity: "clients"}
}

// mapOptions 模拟配置树，按 key 填充 endpointOptions
type mapOptions map[string]string

func (m mapOptions) ConvertTo(object any) error {
	o, ok := object.(*endpointOptions)
	if !ok {
		return errors.New("unexpected target")
	}
	o.BaseURL = m["baseURL"]
	o.Entity = m["entity"]
	return nil
}

type describer interface {
	Describe() string
}

func (e *endpoint) Describe() string {
	return e.BaseURL + "/api/" + e.Entity
}

func TestRegisterAndNew(t *testing.T) {
	Convey("注册并创建组件", t, func() {
		So(Register("test/ref", "Endpoint", newEndpoint), ShouldBeNil)
		So(Register("test/ref", "DefaultEndpoint", newDefaultEndpoint), ShouldBeNil)

		Convey("使用结构体 options 创建", func() {
			obj, err := New("test/ref", "Endpoint", &endpointOptions{BaseURL: "http://api", Entity: "invoices"})
			So(err, ShouldBeNil)
			So(obj.(*endpoint).Entity, ShouldEqual, "invoices")
		})

		Convey("值类型 options 也可以传给指针参数", func() {
			obj, err := New("test/ref", "Endpoint", endpointOptions{Entity: "quotes"})
			So(err, ShouldBeNil)
			So(obj.(*endpoint).Entity, ShouldEqual, "quotes")
		})

		Convey("Convertable options 会先转换", func() {
			obj, err := New("test/ref", "Endpoint", mapOptions{"baseURL": "http://x", "entity": "jobs"})
			So(err, ShouldBeNil)
			So(obj.(*endpoint).Describe(), ShouldEqual, "http://x/api/jobs")
		})

		Convey("构造函数返回的错误会透传", func() {
			_, err := New("test/ref", "Endpoint", &endpointOptions{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "entity is required")
		})

		Convey("无参构造函数", func() {
			obj, err := New("test/ref", "DefaultEndpoint", nil)
			So(err, ShouldBeNil)
			So(obj.(*endpoint).Entity, ShouldEqual, "clients")
		})

		Convey("未注册的类型", func() {
			_, err := New("test/ref", "Missing", nil)
			So(err, ShouldNotBeNil)
		})

		Convey("options 类型不匹配", func() {
			_, err := New("test/ref", "Endpoint", 42)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDuplicateRegister(t *testing.T) {
	Convey("重复注册", t, func() {
		So(Register("test/dup", "Endpoint", newEndpoint), ShouldBeNil)
		So(Register("test/dup", "Endpoint", newEndpoint), ShouldBeNil)
		So(Register("test/dup", "Endpoint", newDefaultEndpoint), ShouldNotBeNil)
	})
}

func TestInvalidConstructor(t *testing.T) {
	Convey("非法构造函数", t, func() {
		So(Register("test/invalid", "NotFunc", 1), ShouldNotBeNil)
		So(Register("test/invalid", "TwoArgs", func(a, b int) int { return a + b }), ShouldNotBeNil)
		So(Register("test/invalid", "BadSecond", func() (int, int) { return 1, 2 }), ShouldNotBeNil)
		So(func() { MustRegister("test/invalid", "Panic", "x") }, ShouldPanic)
	})
}

func TestGenericHelpers(t *testing.T) {
	Convey("RegisterT / NewT / Build", t, func() {
		So(RegisterT[*endpoint](newEndpoint), ShouldBeNil)

		e, err := NewT[*endpoint](&endpointOptions{Entity: "payroll"})
		So(err, ShouldBeNil)
		So(e.Entity, ShouldEqual, "payroll")

		d, err := Build[describer](&TypeOptions{
			Namespace: "github.com/hatlonely/gridx/ref",
			Type:      "endpoint",
			Options:   &endpointOptions{BaseURL: "http://h", Entity: "warehouses"},
		})
		So(err, ShouldBeNil)
		So(d.Describe(), ShouldEqual, "http://h/api/warehouses")

		_, err = Build[describer](nil)
		So(err, ShouldNotBeNil)

		_, err = NewT[int](nil)
		So(err, ShouldNotBeNil)
	})
}
