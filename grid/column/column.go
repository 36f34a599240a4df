// Package column 描述表格列的单元格行为
//
// Column[V] 只关心某个字段的值 V，KeyColumn 把它提升为作用于整行的 Column[grid.Row]，
// Dispatcher 再把 (行, 列) 解析成可以渲染和编辑的 Cell。
package column

import (
	"reflect"

	"github.com/hatlonely/gridx/grid/validate"
	"github.com/hatlonely/gridx/log"
	"github.com/hatlonely/gridx/log/logger"
)

// CellContext 单元格属性的求值上下文
type CellContext[V any] struct {
	Value V
	Index int
}

// CellProps 传给渲染组件的参数
type CellProps[V any] struct {
	ColumnID  string
	Value     V
	Index     int
	Disabled  bool
	ClassName string
	Payload   any
	// SetValue 写回单元格的值，同一个单元格在整个生命周期内是同一个函数
	SetValue func(V)
}

// Component 渲染组件
type Component[V any] interface {
	Render(props CellProps[V]) string
}

// ComponentFunc 函数形式的渲染组件
type ComponentFunc[V any] func(props CellProps[V]) string

func (f ComponentFunc[V]) Render(props CellProps[V]) string {
	return f(props)
}

// Column 单个字段的单元格行为描述
type Column[V any] struct {
	// 列标识，表格内唯一
	ID string
	// 字段访问路径
	Path string
	// 列标题
	Title string
	// 渲染组件，为空时渲染空单元格
	Component Component[V]
	// 透传给渲染组件的数据，实现 validate.Carrier 时提供校验规则
	Payload any
	// 删除时的校验规则，优先于 Payload 上的规则
	Schema validate.Schema

	CopyValue   func(value V, index int) any
	DeleteValue func(value V, index int) V
	PasteValue  func(value V, pasted any, index int) (V, bool)

	Disabled      Prop[CellContext[V], bool]
	CellClassName Prop[CellContext[V], string]
	IsCellEmpty   Prop[CellContext[V], bool]

	// 诊断日志，为空时使用 log.Default()
	Logger logger.Logger

	// gated 表示 DeleteValue 内部已经执行过校验
	gated bool
	// bind 为单元格创建渲染函数，每个单元格只调用一次
	bind func(load func() (V, int), set func(V)) func() string
}

// ValidationSchema 返回删除时使用的校验规则
func (c Column[V]) ValidationSchema() validate.Schema {
	if c.Schema != nil {
		return c.Schema
	}
	if carrier, ok := c.Payload.(validate.Carrier); ok {
		return carrier.ValidationSchema()
	}
	return nil
}

func (c Column[V]) logger() logger.Logger {
	return log.OrDefault(c.Logger)
}

// ApplyDelete 计算删除后的值并经过校验
// 校验失败时返回原值和 *validate.ValidationError，同时记录诊断日志
func (c Column[V]) ApplyDelete(value V, index int) (V, error) {
	if c.DeleteValue == nil {
		return value, nil
	}
	candidate := c.DeleteValue(value, index)
	if c.gated {
		return candidate, nil
	}
	if err := validate.Validate(c.ValidationSchema(), candidate); err != nil {
		c.logger().Warn("cell delete rejected", "column", c.ID, "index", index, "error", err.Error())
		return value, err
	}
	return candidate, nil
}

// ApplyPaste 计算粘贴后的值，列不接受粘贴内容时 ok 为 false
func (c Column[V]) ApplyPaste(value V, pasted any, index int) (V, bool) {
	if c.PasteValue == nil {
		return value, false
	}
	return c.PasteValue(value, pasted, index)
}

// ApplyCopy 返回复制到剪贴板的值，没有 CopyValue 时为 nil
func (c Column[V]) ApplyCopy(value V, index int) any {
	if c.CopyValue == nil {
		return nil
	}
	return c.CopyValue(value, index)
}

func (c Column[V]) binder() func(load func() (V, int), set func(V)) func() string {
	if c.bind != nil {
		return c.bind
	}
	return func(load func() (V, int), set func(V)) func() string {
		if c.Component == nil {
			return nil
		}
		return func() string {
			value, index := load()
			ctx := CellContext[V]{Value: value, Index: index}
			return c.Component.Render(CellProps[V]{
				ColumnID:  c.ID,
				Value:     value,
				Index:     index,
				Disabled:  c.Disabled.Resolve(ctx),
				ClassName: c.CellClassName.Resolve(ctx),
				Payload:   c.Payload,
				SetValue:  set,
			})
		}
	}
}

// project 将字段值投影成 V
// 类型完全匹配时直接返回，数值类型之间只做无损转换，其余情况返回零值
func project[V any](v any) V {
	if typed, ok := v.(V); ok {
		return typed
	}
	var zero V
	if v == nil {
		return zero
	}
	src := reflect.ValueOf(v)
	dstType := reflect.TypeOf((*V)(nil)).Elem()
	if !isNumeric(src.Kind()) || !isNumeric(dstType.Kind()) {
		return zero
	}
	if isUnsigned(dstType.Kind()) && isNegative(src) {
		return zero
	}
	// 转换后再转回原类型不相等说明发生了截断、溢出或精度丢失，例如 3.7 投影到 int
	dst := src.Convert(dstType)
	if dst.Convert(src.Type()).Interface() != src.Interface() {
		return zero
	}
	return dst.Interface().(V)
}

func isUnsigned(kind reflect.Kind) bool {
	switch kind {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNegative(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() < 0
	case reflect.Float32, reflect.Float64:
		return v.Float() < 0
	}
	return false
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
