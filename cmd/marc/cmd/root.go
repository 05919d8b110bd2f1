/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/marc21/pkg/config"
	"github.com/ssargent/marc21/pkg/di"
	"github.com/ssargent/marc21/pkg/logging"
	"github.com/ssargent/marc21/pkg/storage"
)

var container *di.Container

// SetContainer injects the dependency container used by all commands
func SetContainer(c *di.Container) {
	container = c
}

// app carries the state shared by one command tree
type app struct {
	container  *di.Container
	configPath string
	dataDir    string
	config     *config.Config
}

// NewRootCommand builds the marc command tree
func NewRootCommand(c *di.Container) *cobra.Command {
	a := &app{container: c}

	root := &cobra.Command{
		Use:   "marc",
		Short: "MARC21 record toolkit",
		Long: `marc reads, builds and stores binary MARC21 bibliographic records.

Records can be dumped or projected to MARC-XML straight from files, built
from YAML/JSON field manifests, or kept in a local record store that the
REST API serves.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.GetDefaultConfigPath(), "Path to the configuration file")
	root.PersistentFlags().StringVarP(&a.dataDir, "data-dir", "d", "", "Data directory for the record store (overrides config)")

	root.AddCommand(
		newDumpCommand(a),
		newXMLCommand(a),
		newBuildCommand(a),
		newPutCommand(a),
		newGetCommand(a),
		newDeleteCommand(a),
		newListCommand(a),
		newServeCommand(a),
		newInitCommand(a),
	)
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if container == nil {
		container = di.NewContainer()
	}
	if err := NewRootCommand(container).Execute(); err != nil {
		os.Exit(1)
	}
}

// load reads the configuration file when present, falling back to defaults
func (a *app) load(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if config.ConfigExists(a.configPath) {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration %s: %w", a.configPath, err)
	}
	a.config = cfg

	a.container.SetLogger(logging.NewWithWriter(cfg.Logging, cmd.ErrOrStderr()))
	return nil
}

func (a *app) openStore() (*storage.RecordStore, error) {
	if err := os.MkdirAll(a.config.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	store, err := a.container.OpenStore(a.config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

// readInput reads a file, or stdin when path is "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes to a file, or stdout when path is "" or "-"
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
