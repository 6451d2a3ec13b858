package main

import (
	"github.com/aretw0/turtle/internal/cli"
	"github.com/aretw0/turtle/pkg/runner"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Runs the frame loop behind a Model Context Protocol server so agents can
create turtles, submit commands and read the drawing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		ctx, stop := runner.SignalContext(cmd.Context())
		defer stop()

		return cli.ServeMCP(ctx, cli.MCPOptions{
			ConfigPath: configPath,
			Transport:  transport,
			Addr:       addr,
			Debug:      debug,
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "", "stdio or sse (overrides mcp.transport)")
	mcpCmd.Flags().String("addr", "", "SSE listen address (overrides mcp.addr)")
}
