package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var defaultValidate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息里使用配置中的字段名
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{"cfg", "json"} {
			name := strings.Split(field.Tag.Get(key), ",")[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return v
})

// Default 返回共享的 validator 实例，可以在上面注册自定义规则
func Default() *validator.Validate {
	return defaultValidate()
}

// ValidateStruct 使用 validate 标签校验结构体
// 非结构体、nil 以及 time.Time 直接通过
func ValidateStruct(object any) error {
	if object == nil {
		return nil
	}

	rv := reflect.ValueOf(object)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	if rt := rv.Type(); rt.PkgPath() == "time" && rt.Name() == "Time" {
		return nil
	}

	if rv.CanAddr() {
		return Default().Struct(rv.Addr().Interface())
	}
	return Default().Struct(rv.Interface())
}

// ValidateVar 使用标签校验单个值，例如 "required,min=1"
// 标签本身非法时返回错误而不是 panic
func ValidateVar(value any, tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid validation tag %q: %v", tag, r)
		}
	}()
	return Default().Var(value, tag)
}

// Messages 将校验错误展开成可读的消息
func Messages(err error) []string {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		if field == "" {
			messages = append(messages, fmt.Sprintf("value %v does not satisfy %s", fe.Value(), rule))
		} else {
			messages = append(messages, fmt.Sprintf("%s does not satisfy %s", field, rule))
		}
	}
	return messages
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if fe, ok := err.(validator.ValidationErrors); ok {
		*target = fe
		return true
	}
	return false
}
