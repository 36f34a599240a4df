package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/grid/column"
	"github.com/pkg/errors"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errors.Wrap(err, "encode json failed")
	}
	return nil
}

// writeTable 配置了列时按列渲染单元格，否则按字段名输出原始值
func writeTable(w io.Writer, a *app, rows []grid.Row) error {
	visibility := a.store.ColumnVisibility()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if a.table != nil {
		columns := a.table.Visible(visibility)
		titles := make([]string, len(columns))
		for i, c := range columns {
			titles[i] = strings.ToUpper(c.Title)
		}
		fmt.Fprintln(tw, strings.Join(titles, "\t"))

		d := column.NewDispatcher(a.table, nil)
		for i, row := range rows {
			cells := d.DispatchRow(row, i, visibility)
			values := make([]string, len(cells))
			for j, cell := range cells {
				values[j] = cell.Render()
			}
			fmt.Fprintln(tw, strings.Join(values, "\t"))
		}
	} else {
		fields := rowFields(rows, visibility)
		titles := make([]string, len(fields))
		for i, f := range fields {
			titles[i] = strings.ToUpper(f)
		}
		fmt.Fprintln(tw, strings.Join(titles, "\t"))

		for _, row := range rows {
			values := make([]string, len(fields))
			for i, f := range fields {
				values[i] = formatValue(row[f])
			}
			fmt.Fprintln(tw, strings.Join(values, "\t"))
		}
	}

	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "write table failed")
	}
	return nil
}

// rowFields 所有行中出现过的可见字段，按首次出现的顺序，同一行内按字段名排序
func rowFields(rows []grid.Row, visibility map[string]bool) []string {
	seen := map[string]bool{}
	var fields []string
	for _, row := range rows {
		for _, f := range row.Fields() {
			if seen[f] {
				continue
			}
			seen[f] = true
			if shown, ok := visibility[f]; ok && !shown {
				continue
			}
			fields = append(fields, f)
		}
	}
	return fields
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case map[string]any, []any:
		buf, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(buf)
	}
	return fmt.Sprint(v)
}
