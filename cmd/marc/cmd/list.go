/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/ssargent/marc21/pkg/marc"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := store.List()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.AppendHeader(table.Row{"ID", "Control Number", "Leader", "Bytes"})
			for _, id := range ids {
				data, err := store.Read(id)
				if err != nil {
					return err
				}
				rec := marc.NewRecord(data)
				cn := "-"
				if fields, err := rec.Field(marc.ControlKey("001")); err == nil && len(fields) > 0 {
					cn = fields[0].Value
				}
				t.AppendRow(table.Row{id.String(), cn, rec.Leader(), len(data)})
			}
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
			})
			t.SetOutputMirror(cmd.OutOrStdout())
			t.Render()
			return nil
		},
	}
}
