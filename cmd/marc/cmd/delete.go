/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

func newDeleteCommand(a *app) *cobra.Command {
	var byCN bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored record",
		Long: `Remove a record and its control number index entry from the store.

Examples:
  marc delete 2B3uSqQ2pV6SU2pWNhwTPK5u4Zz
  marc delete --control-number ocm12345`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := resolveID(store, args[0], byCN)
			if err != nil {
				return err
			}
			if err := store.Delete(id); err != nil {
				return err
			}
			cmd.Printf("Deleted record %s\n", id.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&byCN, "control-number", false, "Treat the argument as a control number (field 001)")
	return cmd
}
