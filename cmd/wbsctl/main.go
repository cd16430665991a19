package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiURL      string
	output      string
	interactive bool
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "wbsctl",
	Short: "WBS CLI - workbench session command line tool",
	Long:  `wbsctl drives windows, folders and workspace files of a running wbs-api.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || output == "json" {
			color.NoColor = true
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&apiURL, "api-url", "a", "http://localhost:8080", "WBS API URL")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&interactive, "interactive", "i", true, "Answer dialogs on the terminal")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}
