package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// addCommonFlags registers the flag set spec §6 lists as shared between
// `build` and `run` (`-v/--verbose, -c/--check, -C/--no-colors, -I
// <path>` repeatable, plus the debugging trio), matching the reference
// CLI's grouping of `common`/`config`/`debug` option groups onto every
// subcommand rather than the root command, since `-c`/`--check` has no
// meaning outside a specific invocation.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("verbose", "v", false, "print all unnecessary info during compilation")
	cmd.Flags().BoolP("check", "c", false, "type check the program without producing an executable")
	cmd.Flags().BoolP("no-colors", "C", false, "do not color-code errors, warnings and info messages")
	cmd.Flags().StringArrayP("include", "I", nil, "add a directory to the list searched by `include`/`import` (repeatable)")
	cmd.Flags().Bool("dump-effects", false, "dump every defined word's stack effect as msgpack")
	cmd.Flags().Bool("control-flow", false, "write a Graphviz control flow graph of the whole program")
	cmd.Flags().String("control-flow-for", "", "write a Graphviz control flow graph of a single function")
}

// commonOptions is every addCommonFlags value read back out of cmd.
type commonOptions struct {
	verbose        bool
	check          bool
	noColors       bool
	include        []string
	dumpEffects    bool
	controlFlow    bool
	controlFlowFor string
}

func readCommonFlags(cmd *cobra.Command) (commonOptions, error) {
	var opts commonOptions
	var err error
	if opts.verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
		return opts, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if opts.check, err = cmd.Flags().GetBool("check"); err != nil {
		return opts, fmt.Errorf("failed to get check flag: %w", err)
	}
	if opts.noColors, err = cmd.Flags().GetBool("no-colors"); err != nil {
		return opts, fmt.Errorf("failed to get no-colors flag: %w", err)
	}
	if opts.include, err = cmd.Flags().GetStringArray("include"); err != nil {
		return opts, fmt.Errorf("failed to get include flag: %w", err)
	}
	if opts.dumpEffects, err = cmd.Flags().GetBool("dump-effects"); err != nil {
		return opts, fmt.Errorf("failed to get dump-effects flag: %w", err)
	}
	if opts.controlFlow, err = cmd.Flags().GetBool("control-flow"); err != nil {
		return opts, fmt.Errorf("failed to get control-flow flag: %w", err)
	}
	if opts.controlFlowFor, err = cmd.Flags().GetString("control-flow-for"); err != nil {
		return opts, fmt.Errorf("failed to get control-flow-for flag: %w", err)
	}
	if opts.controlFlowFor != "" {
		opts.controlFlow = true
	}
	return opts, nil
}
