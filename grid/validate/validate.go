// Package validate 是删除单元格内容前的校验关口
//
// 编辑和粘贴由编辑界面在提交前校验，删除不经过那条路径，
// 因此列在计算出删除后的候选值时必须通过 Validate 放行。
package validate

import (
	"fmt"
	"strings"

	"github.com/hatlonely/gridx/cfg/validator"
)

// Issue 一条校验问题
type Issue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Result 校验结果，Success 为 true 时 Data 为通过校验的值
type Result struct {
	Success bool    `json:"success"`
	Data    any     `json:"data,omitempty"`
	Errors  []Issue `json:"errors,omitempty"`
}

// Schema 校验规则
type Schema interface {
	SafeParse(value any) Result
}

// Carrier 携带校验规则的对象，列的 Payload 可以实现该接口
type Carrier interface {
	ValidationSchema() Schema
}

// ValidationError 候选值未通过校验
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Validate 使用 schema 校验候选值，schema 为 nil 时总是通过
func Validate(schema Schema, candidate any) error {
	if schema == nil {
		return nil
	}

	result := schema.SafeParse(candidate)
	if result.Success {
		return nil
	}

	messages := make([]string, 0, len(result.Errors))
	for _, issue := range result.Errors {
		if issue.Path != "" {
			messages = append(messages, issue.Path+": "+issue.Message)
		} else {
			messages = append(messages, issue.Message)
		}
	}
	if len(messages) == 0 {
		messages = append(messages, "invalid value")
	}
	return &ValidationError{Messages: messages}
}

// Success 构造成功结果
func Success(data any) Result {
	return Result{Success: true, Data: data}
}

// Failure 构造失败结果
func Failure(messages ...string) Result {
	issues := make([]Issue, len(messages))
	for i, m := range messages {
		issues[i] = Issue{Message: m}
	}
	return Result{Errors: issues}
}

type tagSchema struct {
	tag string
}

// Tag 使用 validator 标签校验单个值，例如 Tag("required,min=1")
func Tag(tag string) Schema {
	return &tagSchema{tag: tag}
}

func (s *tagSchema) SafeParse(value any) Result {
	if err := validator.ValidateVar(value, s.tag); err != nil {
		return Failure(validator.Messages(err)...)
	}
	return Success(value)
}

type structSchema struct{}

// Struct 使用结构体上的 validate 标签校验，非结构体值直接通过
func Struct() Schema {
	return structSchema{}
}

func (structSchema) SafeParse(value any) Result {
	if err := validator.ValidateStruct(value); err != nil {
		return Failure(validator.Messages(err)...)
	}
	return Success(value)
}

// Func 将函数适配成 Schema，函数返回错误即校验失败
type Func func(value any) error

func (f Func) SafeParse(value any) Result {
	if err := f(value); err != nil {
		return Failure(err.Error())
	}
	return Success(value)
}

type allSchema []Schema

// All 组合多个规则，收集全部失败信息
func All(schemas ...Schema) Schema {
	return allSchema(schemas)
}

func (a allSchema) SafeParse(value any) Result {
	var issues []Issue
	for i, s := range a {
		if s == nil {
			continue
		}
		result := s.SafeParse(value)
		if !result.Success {
			if len(result.Errors) == 0 {
				issues = append(issues, Issue{Message: fmt.Sprintf("rule %d rejected the value", i)})
			}
			issues = append(issues, result.Errors...)
		}
	}
	if len(issues) > 0 {
		return Result{Errors: issues}
	}
	return Success(value)
}
