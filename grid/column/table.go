package column

import (
	"slices"

	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/grid/validate"
	"github.com/pkg/errors"
)

var (
	// ErrDuplicateColumn 表格中出现重复的列标识
	ErrDuplicateColumn = errors.New("duplicate column id")
	// ErrUnknownColumn 表格中没有该列
	ErrUnknownColumn = errors.New("unknown column")
)

// Table 一组行级列定义
type Table struct {
	columns []Column[grid.Row]
	byID    map[string]int
}

// NewTable 创建表格，列标识必须非空且唯一
func NewTable(columns ...Column[grid.Row]) (*Table, error) {
	t := &Table{
		columns: make([]Column[grid.Row], 0, len(columns)),
		byID:    make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if c.ID == "" {
			return nil, errors.Errorf("column at position %d has no id", len(t.columns))
		}
		if _, ok := t.byID[c.ID]; ok {
			return nil, errors.WithMessagef(ErrDuplicateColumn, "column %q", c.ID)
		}
		t.byID[c.ID] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// MustNewTable 创建失败时 panic，用于包级变量
func MustNewTable(columns ...Column[grid.Row]) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns 按定义顺序返回全部列
func (t *Table) Columns() []Column[grid.Row] {
	return t.columns
}

// Column 按标识查找列
func (t *Table) Column(id string) (Column[grid.Row], bool) {
	i, ok := t.byID[id]
	if !ok {
		return Column[grid.Row]{}, false
	}
	return t.columns[i], true
}

// IDs 按定义顺序返回列标识
func (t *Table) IDs() []string {
	ids := make([]string, len(t.columns))
	for i, c := range t.columns {
		ids[i] = c.ID
	}
	return ids
}

// Visible 返回可见的列，visibility 中没有出现的列默认可见
func (t *Table) Visible(visibility map[string]bool) []Column[grid.Row] {
	visible := make([]Column[grid.Row], 0, len(t.columns))
	for _, c := range t.columns {
		if shown, ok := visibility[c.ID]; ok && !shown {
			continue
		}
		visible = append(visible, c)
	}
	return visible
}

// Validate 用各列的校验规则检查整行，fields 非空时只检查这些列
// 全部失败信息合并到一个 *validate.ValidationError 中
func (t *Table) Validate(row grid.Row, fields ...string) error {
	var messages []string
	for _, c := range t.columns {
		if len(fields) > 0 && !slices.Contains(fields, c.ID) {
			continue
		}
		err := validate.Validate(c.ValidationSchema(), row)
		if err == nil {
			continue
		}
		var ve *validate.ValidationError
		if errors.As(err, &ve) {
			messages = append(messages, ve.Messages...)
		} else {
			messages = append(messages, err.Error())
		}
	}
	if len(messages) > 0 {
		return &validate.ValidationError{Messages: messages}
	}
	return nil
}
