package cfg

import (
	"reflect"

	"github.com/pkg/errors"
)

// SetDefaults 为结构体中的零值字段设置 def 标签中的默认值
//
// 嵌套结构体和非空的结构体指针会被递归处理，空指针保持为空，
// 这样 *ref.TypeOptions 之类的可选配置仍然可以用 nil 表示未配置。
func SetDefaults(object any) error {
	if object == nil {
		return errors.New("object cannot be nil")
	}
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("object must be a non-nil pointer")
	}
	return setDefaults(rv.Elem())
}

func setDefaults(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return setDefaults(rv.Elem())
	case reflect.Slice:
		for i := 0; i < rv.Len(); i++ {
			if err := setDefaults(rv.Index(i)); err != nil {
				return errors.WithMessagef(err, "[%d]", i)
			}
		}
		return nil
	case reflect.Struct:
	default:
		return nil
	}
	if rv.Type() == timeType {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)
		if !fv.CanSet() || field.Tag.Get("cfg") == "-" {
			continue
		}

		if err := setDefaults(fv); err != nil {
			return errors.WithMessagef(err, "field %s", field.Name)
		}

		def, ok := field.Tag.Lookup("def")
		if !ok || def == "" || !fv.IsZero() {
			continue
		}
		if fv.Kind() == reflect.Ptr {
			// 标量指针，例如 *string
			fv.Set(reflect.New(fv.Type().Elem()))
			fv = fv.Elem()
		}
		if err := parseScalar(fv, def); err != nil {
			return errors.WithMessagef(err, "default value of field %s", field.Name)
		}
	}
	return nil
}
