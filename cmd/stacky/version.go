package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stacky/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the compiler's build fingerprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		noColors, err := cmd.Flags().GetBool("no-colors")
		if err != nil {
			return fmt.Errorf("failed to get no-colors flag: %w", err)
		}
		v := strings.TrimSpace(version.Colored(wantColor(noColors, os.Stdout)))
		if v == "" {
			v = "dev"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stacky %s\n", v)
		if commit := strings.TrimSpace(version.GitCommit); commit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", commit)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("no-colors", "C", false, "disable colored output")
}
