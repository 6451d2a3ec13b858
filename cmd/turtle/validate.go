package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turtle/internal/cli"
	"github.com/aretw0/turtle/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script>...",
	Short: "Check scripts without drawing them",
	Long:  `Compiles each script and reports degenerate commands and unbalanced fill brackets.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		render := tui.NewRenderer(tui.IsTerminal(os.Stdout))

		warnings := 0
		for _, path := range args {
			report, err := cli.Validate(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			warnings += report.Warnings()
			md, err := render(report.Markdown())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), md)
		}
		if strict && warnings > 0 {
			return fmt.Errorf("validation failed: %d warnings", warnings)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Scripts are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat warnings as errors")
}
