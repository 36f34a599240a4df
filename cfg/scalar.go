package cfg

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseScalar 把字符串解析成 rv 的类型并赋值，切片按逗号分隔
func parseScalar(rv reflect.Value, s string) error {
	switch rv.Type() {
	case durationType:
		d, err := time.ParseDuration(s)
		if err != nil {
			// 纯数字按纳秒处理
			n, nerr := strconv.ParseInt(s, 10, 64)
			if nerr != nil {
				return errors.Wrapf(err, "invalid duration %q", s)
			}
			d = time.Duration(n)
		}
		rv.SetInt(int64(d))
		return nil
	case timeType:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				rv.Set(reflect.ValueOf(t))
				return nil
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			rv.Set(reflect.ValueOf(time.Unix(n, 0)))
			return nil
		}
		return errors.Errorf("invalid time %q", s)
	}

	switch rv.Kind() {
	case reflect.String:
		rv.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return errors.Wrapf(err, "invalid bool %q", s)
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 0, rv.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid int %q", s)
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(s), 0, rv.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid uint %q", s)
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), rv.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid float %q", s)
		}
		rv.SetFloat(f)
	case reflect.Slice:
		parts := strings.Split(s, ",")
		slice := reflect.MakeSlice(rv.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := parseScalar(slice.Index(i), strings.TrimSpace(part)); err != nil {
				return errors.WithMessagef(err, "[%d]", i)
			}
		}
		rv.Set(slice)
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return errors.Errorf("cannot parse %q into %v", s, rv.Type())
		}
		rv.Set(reflect.ValueOf(s))
	default:
		return errors.Errorf("cannot parse %q into %v", s, rv.Type())
	}
	return nil
}
