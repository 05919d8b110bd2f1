/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/marc21/pkg/marc"
	"github.com/ssargent/marc21/pkg/marcxml"
	"github.com/ssargent/marc21/pkg/storage"
)

func newGetCommand(a *app) *cobra.Command {
	var (
		asXML  bool
		byCN   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a stored record",
		Long: `Write a stored record to stdout or a file.

Examples:
  marc get 2B3uSqQ2pV6SU2pWNhwTPK5u4Zz -o record.mrc
  marc get --control-number ocm12345 --xml`,
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
			data, err := store.Read(id)
			if err != nil {
				return err
			}
			if asXML {
				if data, err = marcxml.Marshal(marc.NewRecord(data)); err != nil {
					return err
				}
			}
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().BoolVarP(&asXML, "xml", "x", false, "Project the record to MARC-XML")
	cmd.Flags().BoolVar(&byCN, "control-number", false, "Treat the argument as a control number (field 001)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func resolveID(store *storage.RecordStore, arg string, byControlNumber bool) (ksuid.KSUID, error) {
	if byControlNumber {
		return store.FindByControlNumber(arg)
	}
	id, err := ksuid.Parse(arg)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("invalid record ID %q: %w", arg, err)
	}
	return id, nil
}
