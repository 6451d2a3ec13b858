package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turtle/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turtle",
	Short: "Turtle draws and animates turtle-graphics scripts",
	Long: `Turtle executes queues of turtle-graphics commands, animating every turtle
frame by frame, and renders the result to PNG, over HTTP or through MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Runtime configuration (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log engine events to stderr")
}
