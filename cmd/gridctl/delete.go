package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newDeleteCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete rows by id in one bulk request",
		Long: `Delete stages the given ids for deletion and sends them to the repository
in a single bulk request. Ids the repository did not delete are reported and
the command fails.

Example:
  gridctl -c invoices.yaml delete 3 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(global, func(a *app) error {
				ctx := cmd.Context()
				if err := a.mutator.Refresh(ctx); err != nil {
					return errors.WithMessage(err, "refresh failed")
				}

				a.store.StageDelete(args...)
				deleted, err := a.mutator.BulkDelete(ctx)
				if err != nil {
					return errors.WithMessage(err, "bulk delete failed")
				}

				out := cmd.OutOrStdout()
				for _, id := range deleted {
					fmt.Fprintf(out, "deleted %s\n", id)
				}
				if remaining := a.store.PendingDeleteIDs(); len(remaining) > 0 {
					return errors.Errorf("%d of %d ids were not deleted: %s", len(remaining), len(args), strings.Join(remaining, ", "))
				}
				return nil
			})
		},
	}
}
