package column

import (
	"reflect"
	"sync"

	"github.com/hatlonely/gridx/grid"
	"github.com/pkg/errors"
)

// Dispatcher 将 (行, 列) 解析成单元格
//
// 同一个行位置上的单元格会被缓存，渲染组件拿到的 setter 在单元格的生命周期内保持不变，
// 写回时合并到该行位置最近一次分发的行快照上。
type Dispatcher struct {
	table    *Table
	onChange func(index int, row grid.Row)

	mu    sync.Mutex
	slots map[int]*slot
}

type slot struct {
	handle *Handle[grid.Row]
	cells  map[string]*Cell
}

// NewDispatcher 创建分发器，onChange 在单元格修改了行之后被调用
func NewDispatcher(table *Table, onChange func(index int, row grid.Row)) *Dispatcher {
	return &Dispatcher{
		table:    table,
		onChange: onChange,
		slots:    map[int]*slot{},
	}
}

// Dispatch 返回 index 行 columnID 列的单元格，并把该行位置的快照更新为 row
func (d *Dispatcher) Dispatch(row grid.Row, index int, columnID string) (*Cell, error) {
	c, ok := d.table.Column(columnID)
	if !ok {
		return nil, errors.WithMessagef(ErrUnknownColumn, "column %q", columnID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.slots[index]
	if !ok {
		s = &slot{handle: NewHandle(row, index), cells: map[string]*Cell{}}
		d.slots[index] = s
	} else {
		s.handle.Store(row, index)
	}

	cell, ok := s.cells[columnID]
	if !ok {
		cell = &Cell{column: c, handle: s.handle, onChange: d.onChange}
		cell.render = c.binder()(s.handle.Load, cell.SetRow)
		s.cells[columnID] = cell
	}
	return cell, nil
}

// DispatchRow 返回一行中所有可见列的单元格
func (d *Dispatcher) DispatchRow(row grid.Row, index int, visibility map[string]bool) []*Cell {
	columns := d.table.Visible(visibility)
	cells := make([]*Cell, 0, len(columns))
	for _, c := range columns {
		cell, err := d.Dispatch(row, index, c.ID)
		if err == nil {
			cells = append(cells, cell)
		}
	}
	return cells
}

// Prune 释放行号不小于 rows 的单元格，数据行数减少后调用
func (d *Dispatcher) Prune(rows int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for index := range d.slots {
		if index >= rows {
			delete(d.slots, index)
		}
	}
}

// Cell 可渲染可编辑的单元格
type Cell struct {
	column   Column[grid.Row]
	handle   *Handle[grid.Row]
	render   func() string
	onChange func(index int, row grid.Row)
}

func (c *Cell) ColumnID() string {
	return c.column.ID
}

// Row 返回单元格所在行的最新快照
func (c *Cell) Row() grid.Row {
	row, _ := c.handle.Load()
	return row
}

func (c *Cell) Index() int {
	_, index := c.handle.Load()
	return index
}

func (c *Cell) context() CellContext[grid.Row] {
	row, index := c.handle.Load()
	return CellContext[grid.Row]{Value: row, Index: index}
}

// Render 渲染单元格，没有渲染组件时返回空串，单元格仍然可以导航和粘贴
func (c *Cell) Render() string {
	if c.render == nil {
		return ""
	}
	return c.render()
}

func (c *Cell) Disabled() bool {
	return c.column.Disabled.Resolve(c.context())
}

func (c *Cell) ClassName() string {
	return c.column.CellClassName.Resolve(c.context())
}

func (c *Cell) Empty() bool {
	return c.column.IsCellEmpty.Resolve(c.context())
}

// Copy 返回复制到剪贴板的值
func (c *Cell) Copy() any {
	ctx := c.context()
	return c.column.ApplyCopy(ctx.Value, ctx.Index)
}

// Delete 清除单元格内容，校验失败或单元格被禁用时行保持不变
func (c *Cell) Delete() grid.Row {
	ctx := c.context()
	if c.column.Disabled.Resolve(ctx) {
		return ctx.Value
	}
	next, err := c.column.ApplyDelete(ctx.Value, ctx.Index)
	if err != nil || sameRow(next, ctx.Value) {
		return ctx.Value
	}
	c.SetRow(next)
	return next
}

// Paste 粘贴内容，单元格被禁用或不接受内容时行保持不变
func (c *Cell) Paste(pasted any) grid.Row {
	ctx := c.context()
	if c.column.Disabled.Resolve(ctx) {
		return ctx.Value
	}
	next, ok := c.column.ApplyPaste(ctx.Value, pasted, ctx.Index)
	if !ok {
		return ctx.Value
	}
	c.SetRow(next)
	return next
}

// SetRow 写回整行并通知 onChange
func (c *Cell) SetRow(row grid.Row) {
	_, index := c.handle.Load()
	c.handle.Store(row, index)
	if c.onChange != nil {
		c.onChange(index, row)
	}
}

func sameRow(a, b grid.Row) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
