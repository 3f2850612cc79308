package main

import (
	"io"
	"os"

	"golang.org/x/term"

	"stacky/internal/diag"
	"stacky/internal/diagfmt"
)

// wantColor decides -C/--no-colors and the reference implementation's
// `!vm.count("no-colors") && isatty(STDOUT_FILENO)` in one place: color
// is only ever on when the flag allows it and stdout is actually a
// terminal, never based on the flag alone.
func wantColor(noColors bool, out *os.File) bool {
	if noColors {
		return false
	}
	return term.IsTerminal(int(out.Fd()))
}

// printDiagnostics sorts and deduplicates bag before rendering it
// through internal/diagfmt (spec §5's "deterministic output" and §7's
// rendering rules), and returns the process exit code its worst
// diagnostic implies (0 on a clean or warnings-only bag, 1 otherwise).
func printDiagnostics(w io.Writer, bag *diag.Bag, color bool) int {
	bag.Sort()
	bag.Dedup()
	diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{Color: color})
	if bag.HasErrors() {
		return 1
	}
	return 0
}
