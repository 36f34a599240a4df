package main

import (
	"encoding/json"
	"os"

	"github.com/hatlonely/gridx/grid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type queryFlags struct {
	view     viewFlags
	data     string
	output   string
	usePrefs bool
}

func newQueryCommand(global *globalFlags) *cobra.Command {
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List rows after search, filters and sorting",
		Long: `Query loads rows from the configured repository, or from a JSON file
with --data, and prints the rows the grid would show.

Saved preferences of the scope are applied first, flags are applied on top.

Example:
  gridctl -c invoices.yaml query --search acme
  gridctl -c invoices.yaml query -f total:between:number:100,500 -s due:desc
  gridctl -c invoices.yaml query -f status:is_any_of:select:paid,overdue -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(global, func(a *app) error {
				return runQuery(cmd, a, flags)
			})
		},
	}
	flags.view.register(cmd)
	cmd.Flags().StringVarP(&flags.view.search, "search", "q", "", "search text matched against the search fields")
	cmd.Flags().StringVar(&flags.data, "data", "", "read rows from a JSON array file instead of the repository")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "table", "output format: table, json")
	cmd.Flags().BoolVar(&flags.usePrefs, "prefs", true, "apply saved preferences of the scope")
	return cmd
}

func runQuery(cmd *cobra.Command, a *app, flags *queryFlags) error {
	ctx := cmd.Context()
	if flags.output != "table" && flags.output != "json" {
		return errors.Errorf("unsupported output format %q", flags.output)
	}

	if flags.usePrefs {
		if err := a.store.LoadPreferences(ctx, a.prefs, a.scope); err != nil {
			return err
		}
	}
	if err := flags.view.apply(cmd, a.store); err != nil {
		return err
	}

	if flags.data != "" {
		rows, err := readRows(flags.data)
		if err != nil {
			return err
		}
		a.store.SetData(rows)
	} else if err := a.mutator.Refresh(ctx); err != nil {
		return errors.WithMessage(err, "refresh failed")
	}

	rows := a.store.View()
	a.logger.DebugContext(ctx, "query finished", "entity", a.store.Entity(), "total", len(a.store.Data()), "shown", len(rows))

	if flags.output == "json" {
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	return writeTable(cmd.OutOrStdout(), a, rows)
}

// readRows 读取 JSON 数组格式的数据文件
func readRows(filename string) ([]grid.Row, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read data file %s failed", filename)
	}
	var rows []grid.Row
	if err := json.Unmarshal(buf, &rows); err != nil {
		return nil, errors.Wrapf(err, "decode data file %s failed", filename)
	}
	return rows, nil
}
