package main

import (
	"fmt"

	"github.com/aretw0/turtle"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of turtle",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "turtle version %s\n", turtle.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
