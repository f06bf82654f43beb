package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		name := color.New(color.FgGreen, color.Bold).Sprint("javatutor")
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", name, color.New(color.FgYellow).Sprint(version))
	},
}
