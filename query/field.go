package query

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidField 字段名不是合法的 SQL 标识符
var ErrInvalidField = errors.New("invalid field name")

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidateField 检查字段名，只允许字母、数字、下划线和点分路径
func ValidateField(field string) error {
	if !fieldPattern.MatchString(field) {
		return errors.WithMessagef(ErrInvalidField, "field %q", field)
	}
	return nil
}

// likeEscaper 转义 LIKE 模式中的元字符，配合 ESCAPE '!' 使用
// 不用反斜杠作转义符，MySQL 字符串字面量会把它当成转义
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func likeSQL(field string, pattern string) (string, []any, error) {
	if err := ValidateField(field); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s LIKE ? ESCAPE '!'", field), []any{pattern}, nil
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f)
	}
	return 0, false
}

// compare 比较两个值，数值跨类型比较，时间按时间先后，字符串按字典序
// 类型不可比较时 ok 为 false
func compare(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func equal(a, b any) bool {
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}
