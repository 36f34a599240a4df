// Package grid 定义表格引擎的行模型
//
// Row 是字段名到值的映射，字段值可以是嵌套的 map 或 slice，
// 通过 "client.contacts[0].email" 形式的路径访问。
// 列的展示顺序由表格的列定义决定，Row 本身不记录字段顺序。
package grid

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// DefaultIDField 默认的主键字段
const DefaultIDField = "id"

// Row 表格中的一行
type Row map[string]any

// ID 返回 field 字段的字符串形式，字段不存在时返回空串
func (r Row) ID(field string) string {
	if field == "" {
		field = DefaultIDField
	}
	return FormatID(r[field])
}

// FormatID 将 id 值格式化成字符串，nil 返回空串
func FormatID(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		// JSON 解码后的整数 id
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}

// Get 按路径取值
// 路径可以包含点号（.）表示多级嵌套，[]表示数组索引，例如 "items[0].price"
// 顶层存在与路径完全相同的字段时直接返回该字段
func (r Row) Get(path string) (any, bool) {
	if v, ok := r[path]; ok {
		return v, true
	}

	var current any = map[string]any(r)
	for _, key := range ParsePath(path) {
		next, ok := getByKey(current, key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Value 按路径取值，不存在时返回 nil
func (r Row) Value(path string) any {
	v, _ := r.Get(path)
	return v
}

// With 返回设置了 key 字段的新行，原行不变
func (r Row) With(key string, value any) Row {
	out := make(Row, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[key] = value
	return out
}

// Merge 返回合并了 partial 的新行
func (r Row) Merge(partial Row) Row {
	out := make(Row, len(r)+len(partial))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// Clone 浅拷贝
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Fields 返回排序后的顶层字段名
func (r Row) Fields() []string {
	fields := make([]string, 0, len(r))
	for k := range r {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// ParsePath 解析字段路径
func ParsePath(path string) []string {
	var keys []string
	var current strings.Builder
	inBracket := false

	flush := func() {
		if current.Len() > 0 {
			keys = append(keys, current.String())
			current.Reset()
		}
	}

	for _, char := range path {
		switch {
		case char == '.' && !inBracket:
			flush()
		case char == '[':
			flush()
			inBracket = true
		case char == ']' && inBracket:
			flush()
			inBracket = false
		default:
			current.WriteRune(char)
		}
	}
	flush()

	return keys
}

func getByKey(data any, key string) (any, bool) {
	switch d := data.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := d[key]
		return v, ok
	case Row:
		v, ok := d[key]
		return v, ok
	case []any:
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= len(d) {
			return nil, false
		}
		return d[index], true
	}

	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		value := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !value.IsValid() {
			return nil, false
		}
		return value.Interface(), true
	case reflect.Slice, reflect.Array:
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= rv.Len() {
			return nil, false
		}
		return rv.Index(index).Interface(), true
	case reflect.Struct:
		field := rv.FieldByName(key)
		if !field.IsValid() {
			rt := rv.Type()
			for i := 0; i < rt.NumField(); i++ {
				if tag := rt.Field(i).Tag.Get("json"); tag != "" && strings.Split(tag, ",")[0] == key {
					field = rv.Field(i)
					break
				}
			}
		}
		if !field.IsValid() || !field.CanInterface() {
			return nil, false
		}
		return field.Interface(), true
	}
	return nil, false
}
