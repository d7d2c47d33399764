/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/recprobe/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the recprobe REST API server. Buffers POSTed to /api/v1/evaluate are
decoded against the configured candidate set and the report is returned as
JSON. With the archive enabled every report is stored and can be listed under
/api/v1/runs. Prometheus metrics are served on /metrics.

When server.api_key is set, every /api/v1 route except /health requires it
in the X-API-Key header.

Examples:
  recprobe serve
  recprobe serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey
  recprobe serve --archive --archive-dir ./data/runs`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := container.Config()
		logger := container.Logger()
		metrics := container.Metrics()

		runner, err := container.Runner(false, metrics)
		if err != nil {
			return err
		}

		var runs api.RunStore
		arch, err := container.Archive()
		if err != nil {
			return err
		}
		if arch != nil {
			runs = arch
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cmd.Printf("Starting recprobe server on %s:%d (set %s)\n",
			cfg.Server.Bind, cfg.Server.Port, runner.Catalog().DefaultSet())

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(ctx, runner, runs, api.ServerConfig{
			Port:         cfg.Server.Port,
			Bind:         cfg.Server.Bind,
			APIKey:       cfg.Server.APIKey,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
		}, metrics, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key required by /api/v1 routes")
	serveCmd.Flags().Int64("max-body-bytes", 64<<20, "Largest accepted request body")

	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	_ = v.BindPFlag("server.api_key", serveCmd.Flags().Lookup("api-key"))
	_ = v.BindPFlag("server.max_body_bytes", serveCmd.Flags().Lookup("max-body-bytes"))
}
