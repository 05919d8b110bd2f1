/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newPutCommand(a *app) *cobra.Command {
	var (
		fromManifest bool
		replace      string
	)

	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Store a MARC21 record",
		Long: `Validate a binary MARC21 record and add it to the record store.

The record ID is printed on success. With --manifest the file is a
YAML/JSON manifest that is built first. With --replace the record stored
under that ID is overwritten and its control number index moved.

Examples:
  marc put record.mrc
  marc put record.yaml --manifest
  marc put corrected.mrc --replace 2B3uSqQ2pV6SU2pWNhwTPK5u4Zz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if fromManifest {
				if data, err = a.build(data); err != nil {
					return err
				}
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var id ksuid.KSUID
			if replace != "" {
				if id, err = resolveID(store, replace, false); err != nil {
					return err
				}
				err = store.Update(id, data)
			} else {
				id, err = store.Create(data)
			}
			if err != nil {
				return err
			}
			a.container.Logger().WithFields(logrus.Fields{
				"record_id": id.String(),
				"bytes":     len(data),
				"replaced":  replace != "",
			}).Debug("record stored")
			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&fromManifest, "manifest", "m", false, "Treat the input as a field manifest")
	cmd.Flags().StringVar(&replace, "replace", "", "Overwrite the record stored under this ID")
	return cmd
}
