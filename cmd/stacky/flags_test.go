package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestReadCommonFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addCommonFlags(cmd)
	if err := cmd.Flags().Parse([]string{
		"-v", "-C", "-I", "lib", "-I", "vendor", "--control-flow-for", "double",
	}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}

	opts, err := readCommonFlags(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.verbose || !opts.noColors {
		t.Fatalf("expected verbose and noColors, got %+v", opts)
	}
	if len(opts.include) != 2 || opts.include[0] != "lib" || opts.include[1] != "vendor" {
		t.Fatalf("expected two include dirs, got %v", opts.include)
	}
	if !opts.controlFlow {
		t.Fatalf("expected --control-flow-for to imply controlFlow")
	}
	if opts.controlFlowFor != "double" {
		t.Fatalf("expected controlFlowFor=double, got %q", opts.controlFlowFor)
	}
}
