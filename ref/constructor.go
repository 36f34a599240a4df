package ref

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// constructor 对构造函数的反射封装
// 支持的签名：func() T、func() (T, error)、func(O) T、func(O) (T, error)
type constructor struct {
	fn           reflect.Value
	pointer      uintptr
	paramType    reflect.Type
	returnsError bool
}

func newConstructor(fn any) (*constructor, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %T", fn)
	}

	ft := fv.Type()
	if ft.NumIn() > 1 {
		return nil, fmt.Errorf("constructor must have 0 or 1 input parameters, got %d", ft.NumIn())
	}
	if ft.NumOut() != 1 && ft.NumOut() != 2 {
		return nil, fmt.Errorf("constructor must have 1 or 2 return values, got %d", ft.NumOut())
	}
	if ft.NumOut() == 2 && !ft.Out(1).Implements(errorType) {
		return nil, fmt.Errorf("second return value must be error, got %v", ft.Out(1))
	}

	c := &constructor{
		fn:           fv,
		pointer:      fv.Pointer(),
		returnsError: ft.NumOut() == 2,
	}
	if ft.NumIn() == 1 {
		c.paramType = ft.In(0)
	}
	return c, nil
}

func (c *constructor) call(options any) (any, error) {
	var args []reflect.Value
	if c.paramType != nil {
		arg, err := c.prepare(options)
		if err != nil {
			return nil, err
		}
		args = []reflect.Value{arg}
	}

	results := c.fn.Call(args)
	if c.returnsError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// prepare 将 options 转换成构造函数的参数
// nil 会被转换成参数类型的零值，指针参数会得到一个新分配的空对象
func (c *constructor) prepare(options any) (reflect.Value, error) {
	if options == nil {
		if c.paramType.Kind() == reflect.Ptr {
			return reflect.New(c.paramType.Elem()), nil
		}
		return reflect.Zero(c.paramType), nil
	}

	if convertable, ok := options.(Convertable); ok {
		target := reflect.New(c.paramType)
		if c.paramType.Kind() == reflect.Ptr {
			target.Elem().Set(reflect.New(c.paramType.Elem()))
			if err := convertable.ConvertTo(target.Elem().Interface()); err != nil {
				return reflect.Value{}, fmt.Errorf("convert options to %v failed: %w", c.paramType, err)
			}
			return target.Elem(), nil
		}
		if err := convertable.ConvertTo(target.Interface()); err != nil {
			return reflect.Value{}, fmt.Errorf("convert options to %v failed: %w", c.paramType, err)
		}
		return target.Elem(), nil
	}

	ov := reflect.ValueOf(options)
	if ov.Type().AssignableTo(c.paramType) {
		return ov, nil
	}
	// 允许值类型 options 传给指针参数，反之亦然
	if c.paramType.Kind() == reflect.Ptr && ov.Type().AssignableTo(c.paramType.Elem()) {
		p := reflect.New(c.paramType.Elem())
		p.Elem().Set(ov)
		return p, nil
	}
	if ov.Kind() == reflect.Ptr && !ov.IsNil() && ov.Elem().Type().AssignableTo(c.paramType) {
		return ov.Elem(), nil
	}
	return reflect.Value{}, fmt.Errorf("options type %T is not assignable to %v", options, c.paramType)
}
