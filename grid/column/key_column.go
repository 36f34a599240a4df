package column

import (
	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/grid/validate"
)

// KeyColumn 把作用于单个值的列绑定到行的 key 字段上
//
// 复制、删除、粘贴以及各个属性都先取出 row[key] 再交给 inner，
// 删除得到的候选值必须通过 inner 的校验规则，否则行保持不变。
func KeyColumn[V any](key string, inner Column[V]) Column[grid.Row] {
	field := func(row grid.Row) V {
		return project[V](row[key])
	}
	lift := func(ctx CellContext[grid.Row]) CellContext[V] {
		return CellContext[V]{Value: field(ctx.Value), Index: ctx.Index}
	}

	title := inner.Title
	if title == "" {
		title = key
	}

	c := Column[grid.Row]{
		ID:            key,
		Path:          key,
		Title:         title,
		Payload:       inner.Payload,
		Logger:        inner.Logger,
		Disabled:      Project(inner.Disabled, lift),
		CellClassName: Project(inner.CellClassName, lift),
		IsCellEmpty:   Project(inner.IsCellEmpty, lift),
		gated:         true,
	}
	if schema := inner.ValidationSchema(); schema != nil {
		c.Schema = fieldSchema[V]{key: key, inner: schema}
	}

	c.CopyValue = func(row grid.Row, index int) any {
		if inner.CopyValue == nil {
			return nil
		}
		return inner.CopyValue(field(row), index)
	}

	c.DeleteValue = func(row grid.Row, index int) grid.Row {
		var candidate any
		if inner.DeleteValue != nil {
			candidate = inner.DeleteValue(field(row), index)
		}
		if err := validate.Validate(inner.ValidationSchema(), candidate); err != nil {
			inner.logger().Warn("cell delete rejected", "column", key, "index", index, "error", err.Error())
			return row
		}
		return row.With(key, candidate)
	}

	c.PasteValue = func(row grid.Row, pasted any, index int) (grid.Row, bool) {
		var next any
		if inner.PasteValue != nil {
			if v, ok := inner.PasteValue(field(row), pasted, index); ok {
				next = v
			}
		}
		return row.With(key, next), true
	}

	if inner.Component != nil {
		bound := inner
		if bound.ID == "" {
			bound.ID = key
		}
		innerBind := bound.binder()
		c.bind = func(load func() (grid.Row, int), setRow func(grid.Row)) func() string {
			// 字段级的 setter 只创建一次，合并到最新的行快照上
			setField := func(v V) {
				row, _ := load()
				setRow(row.With(key, v))
			}
			loadField := func() (V, int) {
				row, index := load()
				return field(row), index
			}
			return innerBind(loadField, setField)
		}
	}

	return c
}

// fieldSchema 用 inner 的规则校验整行的 key 字段，供提交前的整行校验使用
type fieldSchema[V any] struct {
	key   string
	inner validate.Schema
}

func (s fieldSchema[V]) SafeParse(value any) validate.Result {
	var raw any
	switch row := value.(type) {
	case grid.Row:
		raw = row[s.key]
	case map[string]any:
		raw = row[s.key]
	}

	result := s.inner.SafeParse(project[V](raw))
	if result.Success {
		return validate.Success(value)
	}
	for i := range result.Errors {
		if result.Errors[i].Path == "" {
			result.Errors[i].Path = s.key
		}
	}
	return result
}
