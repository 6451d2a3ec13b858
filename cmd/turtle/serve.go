package main

import (
	"github.com/aretw0/turtle/internal/cli"
	"github.com/aretw0/turtle/pkg/runner"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [script]...",
	Short: "Start the HTTP server",
	Long: `Runs the frame loop in real time and exposes it as a JSON API with SSE
events, the current frame as PNG and Prometheus metrics. Scripts given as
arguments are submitted on start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		addr, _ := cmd.Flags().GetString("addr")
		redisAddr, _ := cmd.Flags().GetString("redis")

		ctx, stop := runner.SignalContext(cmd.Context())
		defer stop()

		return cli.Serve(ctx, cli.ServeOptions{
			ConfigPath: configPath,
			Addr:       addr,
			RedisAddr:  redisAddr,
			Scripts:    args,
			Debug:      debug,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides http.addr)")
	serveCmd.Flags().String("redis", "", "Consume commands from the Redis server at this address")
}
