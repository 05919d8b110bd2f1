/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/marc21/pkg/api"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		port   int
		bind   string
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Serve the record store over HTTP.

Every route under /api/v1 requires the X-API-Key header. Prometheus metrics
are exposed unauthenticated at /metrics. Flags override the configuration
file; run "marc init" first to generate an API key.

Examples:
  marc serve
  marc serve --port 9200 --bind 0.0.0.0 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind = bind
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Security.APIKey = apiKey
			}
			if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
				return fmt.Errorf("no API key configured: run 'marc init' or pass --api-key")
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			starter := a.container.GetServerFactory().CreateServerStarter()
			return starter.StartServer(store, api.ServerConfig{
				Port:          cfg.Port,
				Bind:          cfg.Bind,
				APIKey:        cfg.Security.APIKey,
				DefaultLeader: cfg.Records.DefaultLeader,
				MaxRecordSize: cfg.Records.MaxRecordSize,
			}, a.container.Logger())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVar(&bind, "bind", "127.0.0.1", "Address to bind")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for client authentication")
	return cmd
}
