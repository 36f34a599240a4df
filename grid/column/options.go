package column

import (
	"github.com/hatlonely/gridx/cfg/validator"
	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/grid/validate"
	"github.com/pkg/errors"
)

// Options 配置文件中的列定义
type Options struct {
	// ID 列标识，同时是行中的字段名
	ID    string `cfg:"id" validate:"required"`
	Kind  string `cfg:"kind" def:"text" validate:"omitempty,oneof=text number checkbox date select"`
	Title string `cfg:"title"`
	// Choices select 列的可选值
	Choices []string `cfg:"choices"`
	// Validate 删除和保存时的校验规则，validator 标签语法，例如 "required,email"
	Validate string `cfg:"validate"`
	// ReadOnly 单元格不可编辑
	ReadOnly bool `cfg:"readOnly"`
}

// NewTableWithOptions 按配置创建行级表格
func NewTableWithOptions(options []*Options) (*Table, error) {
	columns := make([]Column[grid.Row], 0, len(options))
	for i, o := range options {
		if o == nil {
			return nil, errors.Errorf("column at position %d is nil", i)
		}
		if err := validator.ValidateStruct(o); err != nil {
			return nil, errors.WithMessagef(err, "column at position %d", i)
		}
		c, err := newColumn(o)
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return NewTable(columns...)
}

func newColumn(o *Options) (Column[grid.Row], error) {
	var schema validate.Schema
	if o.Validate != "" {
		schema = validate.Tag(o.Validate)
	}

	switch o.Kind {
	case "", "text":
		return configure(o, TextColumn(), schema), nil
	case "number":
		return configure(o, NumberColumn(), schema), nil
	case "checkbox":
		return configure(o, CheckboxColumn(), schema), nil
	case "date":
		return configure(o, DateColumn(), schema), nil
	case "select":
		return configure(o, SelectColumn(o.Choices...), schema), nil
	}
	return Column[grid.Row]{}, errors.Errorf("column %q: unknown kind %q", o.ID, o.Kind)
}

func configure[V any](o *Options, inner Column[V], schema validate.Schema) Column[grid.Row] {
	inner.Title = o.Title
	if schema != nil {
		inner.Schema = schema
	}
	if o.ReadOnly {
		inner.Disabled = Static[CellContext[V]](true)
	}
	return KeyColumn(o.ID, inner)
}
