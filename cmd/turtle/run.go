package main

import (
	"os"

	"github.com/aretw0/turtle/internal/cli"
	"github.com/aretw0/turtle/internal/presentation/tui"
	"github.com/aretw0/turtle/pkg/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Draw a script to a PNG file",
	Long: `Executes every turtle of a YAML or JSON script until all queues are drained
and saves the final frame as PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		out, _ := cmd.Flags().GetString("out")
		realtime, _ := cmd.Flags().GetBool("realtime")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, stop := runner.SignalContext(cmd.Context())
		defer stop()

		styled := tui.IsTerminal(os.Stdout)
		if styled && !quiet {
			tui.PrintBanner(os.Stdout)
		}
		return cli.Execute(ctx, cli.RunOptions{
			ConfigPath: configPath,
			Script:     args[0],
			Out:        out,
			Realtime:   realtime,
			Debug:      debug,
			Quiet:      quiet,
			Styled:     styled,
			Stdout:     cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("out", "o", "", "PNG output path (default: script name with .png)")
	runCmd.Flags().Bool("realtime", false, "Animate at the configured frame rate")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the summary")
}
