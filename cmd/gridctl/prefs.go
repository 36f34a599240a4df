package main

import (
	"fmt"

	"github.com/hatlonely/gridx/prefs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newPrefsCommand(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage saved sort, filter and column preferences",
	}
	cmd.AddCommand(newPrefsShowCommand(global))
	cmd.AddCommand(newPrefsSaveCommand(global))
	cmd.AddCommand(newPrefsDeleteCommand(global))
	return cmd
}

func newPrefsShowCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved preferences of the scope as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(global, func(a *app) error {
				p, err := a.prefs.Load(cmd.Context(), a.scope)
				if errors.Is(err, prefs.ErrNotFound) {
					fmt.Fprintf(cmd.OutOrStdout(), "no preferences saved for %s\n", a.scope.Key())
					return nil
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
		},
	}
}

func newPrefsSaveCommand(global *globalFlags) *cobra.Command {
	var view viewFlags
	var reset bool

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save sort, filter and column settings for the scope",
		Long: `Save starts from the saved preferences of the scope, or from the store
section of the config file with --reset, applies the flags and saves the result.

Example:
  gridctl -c invoices.yaml --user alice prefs save -s due:desc --hide client
  gridctl -c invoices.yaml --user alice prefs save --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(global, func(a *app) error {
				ctx := cmd.Context()
				if !reset {
					if err := a.store.LoadPreferences(ctx, a.prefs, a.scope); err != nil {
						return err
					}
				}
				if err := view.apply(cmd, a.store); err != nil {
					return err
				}
				if err := a.store.SavePreferences(ctx, a.prefs, a.scope); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "preferences saved for %s\n", a.scope.Key())
				return nil
			})
		},
	}
	view.register(cmd)
	cmd.Flags().BoolVar(&reset, "reset", false, "ignore previously saved preferences")
	return cmd
}

func newPrefsDeleteCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the saved preferences of the scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(global, func(a *app) error {
				if err := a.prefs.Delete(cmd.Context(), a.scope); err != nil {
					return errors.WithMessage(err, "delete preferences failed")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "preferences deleted for %s\n", a.scope.Key())
				return nil
			})
		},
	}
}
