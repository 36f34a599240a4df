package cfg

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/hatlonely/gridx/ref"
	"github.com/pkg/errors"
)

var typeOptionsType = reflect.TypeOf(ref.TypeOptions{})

// convert 将配置树中的值写入 dst
// 配置树只包含 map[string]any、[]any 和标量，标量之间按目标类型转换，字符串可以转成数字、布尔和时长
func convert(src any, dst reflect.Value) error {
	if src == nil {
		return nil
	}
	if dst.Kind() == reflect.Interface {
		sv := reflect.ValueOf(src)
		if dst.NumMethod() == 0 || sv.Type().Implements(dst.Type()) {
			dst.Set(sv)
			return nil
		}
		return errors.Errorf("cannot convert %T to %v", src, dst.Type())
	}
	if c, ok := src.(*Config); ok {
		if c == nil || c.data == nil {
			return nil
		}
		src = c.data
	}
	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return convert(src, dst.Elem())
	}

	switch dst.Type() {
	case durationType:
		return convertDuration(src, dst)
	case timeType:
		return convertTime(src, dst)
	}

	switch dst.Kind() {
	case reflect.Struct:
		return convertStruct(src, dst)
	case reflect.Map:
		return convertMap(src, dst)
	case reflect.Slice:
		return convertSlice(src, dst)
	}

	if s, ok := src.(string); ok {
		return parseScalar(dst, s)
	}

	sv := reflect.ValueOf(src)
	switch dst.Kind() {
	case reflect.String:
		dst.SetString(fmt.Sprint(src))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		// 只接受整数值，JSON 中的数字解码为 float64
		if isFloat(sv.Kind()) && sv.Float() != math.Trunc(sv.Float()) {
			return errors.Errorf("cannot convert %v to %v", src, dst.Type())
		}
	}
	if sv.Type().ConvertibleTo(dst.Type()) && sv.Kind() != reflect.String {
		dst.Set(sv.Convert(dst.Type()))
		return nil
	}
	return errors.Errorf("cannot convert %T to %v", src, dst.Type())
}

func isFloat(kind reflect.Kind) bool {
	return kind == reflect.Float32 || kind == reflect.Float64
}

func convertDuration(src any, dst reflect.Value) error {
	sv := reflect.ValueOf(src)
	switch {
	case sv.Kind() == reflect.String:
		return parseScalar(dst, sv.String())
	case sv.CanInt():
		dst.SetInt(sv.Int())
	case isFloat(sv.Kind()):
		// 浮点数按秒处理
		dst.SetInt(int64(sv.Float() * float64(time.Second)))
	default:
		return errors.Errorf("cannot convert %T to time.Duration", src)
	}
	return nil
}

func convertTime(src any, dst reflect.Value) error {
	switch v := src.(type) {
	case time.Time:
		dst.Set(reflect.ValueOf(v))
	case string:
		return parseScalar(dst, v)
	case int64:
		dst.Set(reflect.ValueOf(time.Unix(v, 0)))
	case float64:
		dst.Set(reflect.ValueOf(time.Unix(int64(v), 0)))
	default:
		return errors.Errorf("cannot convert %T to time.Time", src)
	}
	return nil
}

// fieldName 字段在配置中的名称，依次使用 cfg、json 标签和字段名
func fieldName(field reflect.StructField) (string, bool) {
	for _, key := range []string{"cfg", "json"} {
		name := strings.Split(field.Tag.Get(key), ",")[0]
		if name == "-" {
			return "", false
		}
		if name != "" {
			return name, true
		}
	}
	return field.Name, true
}

// lookup 先精确匹配再忽略大小写匹配，环境变量覆盖的键都是小写
func lookup(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func convertStruct(src any, dst reflect.Value) error {
	m, ok := src.(map[string]any)
	if !ok {
		return errors.Errorf("cannot convert %T to %v", src, dst.Type())
	}

	rt := dst.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := dst.Field(i)
		if !fv.CanSet() {
			continue
		}
		name, ok := fieldName(field)
		if !ok {
			continue
		}
		if field.Anonymous && field.Tag.Get("cfg") == "" && fv.Kind() == reflect.Struct {
			if err := convertStruct(m, fv); err != nil {
				return err
			}
			continue
		}

		v, ok := lookup(m, name)
		if !ok {
			continue
		}
		// 插件的参数保留为配置树，由 ref 按构造函数的参数类型转换
		if rt == typeOptionsType && field.Name == "Options" {
			switch v.(type) {
			case map[string]any, []any:
				v = New(v)
			}
		}
		if err := convert(v, fv); err != nil {
			return errors.WithMessagef(err, "field %s", name)
		}
	}
	return nil
}

func convertMap(src any, dst reflect.Value) error {
	m, ok := src.(map[string]any)
	if !ok {
		return errors.Errorf("cannot convert %T to %v", src, dst.Type())
	}
	if dst.Type().Key().Kind() != reflect.String {
		return errors.Errorf("unsupported map key type %v", dst.Type().Key())
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMapWithSize(dst.Type(), len(m)))
	}
	for k, v := range m {
		ev := reflect.New(dst.Type().Elem()).Elem()
		if err := convert(v, ev); err != nil {
			return errors.WithMessagef(err, "key %s", k)
		}
		dst.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), ev)
	}
	return nil
}

func convertSlice(src any, dst reflect.Value) error {
	var items []any
	switch v := src.(type) {
	case []any:
		items = v
	case string:
		// 环境变量中的列表用逗号分隔
		return parseScalar(dst, v)
	default:
		return errors.Errorf("cannot convert %T to %v", src, dst.Type())
	}

	slice := reflect.MakeSlice(dst.Type(), len(items), len(items))
	for i, item := range items {
		if err := convert(item, slice.Index(i)); err != nil {
			return errors.WithMessagef(err, "[%d]", i)
		}
	}
	dst.Set(slice)
	return nil
}
