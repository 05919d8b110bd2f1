/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ssargent/marc21/pkg/manifest"
	"github.com/ssargent/marc21/pkg/marc"
)

type dumpedField struct {
	Key        string          `json:"key"`
	Tag        string          `json:"tag"`
	Indicators string          `json:"indicators,omitempty"`
	Value      string          `json:"value,omitempty"`
	Subfields  []marc.Subfield `json:"subfields,omitempty"`
}

type dumpedRecord struct {
	Leader string        `json:"leader"`
	Fields []dumpedField `json:"fields"`
}

func newDumpCommand(a *app) *cobra.Command {
	var (
		pattern string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the fields of a MARC21 record file",
		Long: `Decode a binary MARC21 record and print its fields.

--select takes a regular expression matched against each field key. Data
field keys are "tag/indicators" (for example "245/10"), control field keys
are the bare tag ("001"). The yaml format is a manifest that "marc build"
accepts; records carrying fields the builder cannot write (0xx tags above
009) are refused in that format.

Examples:
  marc dump record.mrc
  marc dump record.mrc --select '^6[0-9]{2}/' --format json
  marc dump record.mrc --format yaml > record.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			rec := marc.NewRecord(data)
			sel, err := rec.Select(pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				return writeText(out, rec.Leader(), sel)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(toDumped(rec.Leader(), sel))
			case "yaml":
				m, err := manifest.FromSelection(rec.Leader(), sel)
				if err != nil {
					return err
				}
				doc, err := m.Marshal()
				if err != nil {
					return err
				}
				_, err = out.Write(doc)
				return err
			default:
				return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&pattern, "select", "s", "", "Regular expression over field keys (default all fields)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	return cmd
}

func writeText(w io.Writer, leader string, sel marc.Selection) error {
	if _, err := fmt.Fprintf(w, "LDR    %s\n", leader); err != nil {
		return err
	}
	for _, key := range sel.Keys() {
		for _, f := range sel[key] {
			var err error
			if key.IsControl() {
				_, err = fmt.Fprintf(w, "%s    %s\n", key.Tag, f.Value)
			} else {
				var b strings.Builder
				for _, sf := range f.Subfields {
					b.WriteString("$" + sf.Code + sf.Value)
				}
				_, err = fmt.Fprintf(w, "%s %s %s\n", key.Tag, key.Indicators, b.String())
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func toDumped(leader string, sel marc.Selection) dumpedRecord {
	rec := dumpedRecord{Leader: leader, Fields: []dumpedField{}}
	for _, key := range sel.Keys() {
		for _, f := range sel[key] {
			rec.Fields = append(rec.Fields, dumpedField{
				Key:        key.String(),
				Tag:        key.Tag,
				Indicators: key.Indicators,
				Value:      f.Value,
				Subfields:  f.Subfields,
			})
		}
	}
	return rec
}
