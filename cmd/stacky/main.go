// Package main implements the stacky CLI: `build` compiles one or more
// source files to a Linux x86-64 executable, `run` does the same and
// then executes the result, forwarding any `--`-separated arguments.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"stacky/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "stacky",
	Short: "stacky language compiler",
	Long:  "stacky compiles a small concatenative, stack-oriented language to a native executable.",
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
