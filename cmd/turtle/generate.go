package main

import (
	"os"

	"github.com/aretw0/turtle/internal/cli"
	"github.com/aretw0/turtle/internal/presentation/tui"
	"github.com/aretw0/turtle/pkg/adapters/process"
	"github.com/aretw0/turtle/pkg/runner"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <name> [key=value]...",
	Short: "Draw the script printed by a registered generator",
	Long: `Runs an allow-listed generator program from the registry file, passing
arguments as TURTLE_ARG_<KEY> environment variables, and draws the script it
prints to a PNG file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		registry, _ := cmd.Flags().GetString("registry")
		out, _ := cmd.Flags().GetString("out")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, stop := runner.SignalContext(cmd.Context())
		defer stop()

		return cli.Generate(ctx, cli.GenerateOptions{
			RunOptions: cli.RunOptions{
				ConfigPath: configPath,
				Out:        out,
				Debug:      debug,
				Quiet:      quiet,
				Styled:     tui.IsTerminal(os.Stdout),
				Stdout:     cmd.OutOrStdout(),
			},
			Registry: registry,
			Name:     args[0],
			Args:     args[1:],
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("registry", process.DefaultPath, "Generator registry (YAML or JSON)")
	generateCmd.Flags().StringP("out", "o", "", "PNG output path (default: generator name with .png)")
	generateCmd.Flags().BoolP("quiet", "q", false, "Do not print the summary")
}
