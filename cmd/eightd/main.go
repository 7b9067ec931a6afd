package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "eightd",
	Short: "Audit, translate and render 8D problem-solving reports",
	Long: "eightd audits externally written 8D reports with a language model,\n" +
		"translates the result and writes Word documents, and renders authored\n" +
		"report JSON to print-ready HTML.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
