package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <sources...> [-- <args...>]",
	Short: "Compile one or more stacky source files and execute the result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func init() {
	addCommonFlags(runCmd)
	runCmd.Flags().StringP("output", "o", "", "file name of the produced executable")
	runCmd.Flags().Bool("keep-asm", false, "keep the generated .asm/.o next to the output instead of a temp dir")
}

func runRun(cmd *cobra.Command, args []string) error {
	outputPath, err := buildProgram(cmd, args)
	if err != nil {
		return err
	}

	_, forwarded := splitAtDash(cmd, args)

	absPath, err := absExecutable(outputPath)
	if err != nil {
		return err
	}

	child := exec.Command(absPath, forwarded...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	if err := child.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	os.Exit(0)
	return nil
}

// absExecutable turns the freshly-built output path into something
// exec.Command will actually run: a bare name with no path separator
// (e.g. an output derived from a source file in the current directory)
// is resolved against the working directory rather than searched for
// on PATH, since a just-built binary is never expected to live there.
func absExecutable(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	if strings.ContainsRune(path, filepath.Separator) {
		return path, nil
	}
	return filepath.Abs(path)
}
