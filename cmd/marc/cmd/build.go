/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ssargent/marc21/pkg/manifest"
	"github.com/ssargent/marc21/pkg/marc"
)

func newBuildCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build <manifest>",
		Short: "Build a MARC21 record from a YAML or JSON manifest",
		Long: `Build a binary MARC21 record from a field manifest.

The configured default leader is applied first, then the manifest's leader
patches, then its fields in order.

Example manifest:
  leader:
    "6": m
  fields:
    - tag: "001"
      value: "12345"
    - tag: "245"
      indicators: "10"
      subfields:
        - {code: a, value: Der Prozess}

Examples:
  marc build record.yaml -o record.mrc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := a.build(body)
			if err != nil {
				return err
			}
			a.container.Logger().WithFields(logrus.Fields{
				"manifest": args[0],
				"bytes":    len(data),
			}).Debug("record built")
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// build encodes a manifest on top of the configured default leader
func (a *app) build(body []byte) ([]byte, error) {
	m, err := manifest.Parse(body)
	if err != nil {
		return nil, err
	}
	b := marc.NewBuilder()
	if err := b.SetLeader(a.config.Records.DefaultLeader); err != nil {
		return nil, fmt.Errorf("default leader: %w", err)
	}
	if err := m.Apply(b); err != nil {
		return nil, err
	}
	return b.Build()
}
