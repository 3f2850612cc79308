// Package diagfmt renders a diag.Bag as human-readable text.
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"stacky/internal/diag"
)

// PrettyOpts controls Pretty's output.
type PrettyOpts struct {
	Color bool
}

var kindColor = map[diag.Kind]*color.Color{
	diag.KindInfo:         color.New(color.FgCyan),
	diag.KindOptimization: color.New(color.FgMagenta),
	diag.KindCommand:      color.New(color.FgYellow),
	diag.KindWarning:      color.New(color.FgYellow, color.Bold),
	diag.KindError:        color.New(color.FgRed, color.Bold),
	diag.KindCompilerBug:  color.New(color.FgRed, color.BgBlack, color.Bold),
}

// Pretty writes every diagnostic in bag to w as:
//
//	<file>:<line>:<col>: <kind>: <message>
//
// or, when the diagnostic carries no location:
//
//	stacky: <kind>: <message>
//
// followed by any notes, indented, in the same style (spec §7). Call
// bag.Sort() first for deterministic output.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeOne(w, d, opts)
		for _, n := range d.Notes {
			writeNote(w, n, opts)
		}
	}
}

func writeOne(w io.Writer, d diag.Diagnostic, opts PrettyOpts) {
	label := d.Kind.String()
	if opts.Color {
		if c, ok := kindColor[d.Kind]; ok {
			label = c.Sprint(label)
		}
	}
	if d.Primary.IsValid() {
		fmt.Fprintf(w, "%s: %s: %s\n", d.Primary.String(), label, d.Message)
		return
	}
	fmt.Fprintf(w, "stacky: %s: %s\n", label, d.Message)
}

func writeNote(w io.Writer, n diag.Note, opts PrettyOpts) {
	label := "info"
	if opts.Color {
		label = kindColor[diag.KindInfo].Sprint(label)
	}
	if n.Loc.IsValid() {
		fmt.Fprintf(w, "  %s: %s: %s\n", n.Loc.String(), label, n.Msg)
		return
	}
	fmt.Fprintf(w, "  stacky: %s: %s\n", label, n.Msg)
}
