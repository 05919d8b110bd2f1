/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ssargent/marc21/pkg/marc"
	"github.com/ssargent/marc21/pkg/marcxml"
)

func newXMLCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "xml <file>",
		Short: "Project a MARC21 record file to MARC-XML",
		Long: `Render a binary MARC21 record as a MARC21 slim XML document.

Examples:
  marc xml record.mrc
  marc xml record.mrc -o record.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := marcxml.Marshal(marc.NewRecord(data))
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, doc)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
