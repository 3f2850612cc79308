package diagfmt

import (
	"strings"
	"testing"

	"stacky/internal/diag"
	"stacky/internal/source"
)

func TestPrettyFormatsLocatedDiagnostic(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.KindError, 0, source.Location{File: "main.stacky", Line: 3, Column: 5}, "missing operand"))

	var buf strings.Builder
	Pretty(&buf, bag, PrettyOpts{Color: false})

	want := "main.stacky:3:5: error: missing operand\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestPrettyFormatsLocationlessDiagnostic(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.KindCommand, 0, source.Location{}, "no input files"))

	var buf strings.Builder
	Pretty(&buf, bag, PrettyOpts{Color: false})

	want := "stacky: command: no input files\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestPrettyRendersNotesIndented(t *testing.T) {
	bag := diag.NewBag(0)
	d := diag.New(diag.KindError, 0, source.Location{File: "a.stacky", Line: 2, Column: 1}, "branches must have matching typestacks").
		WithNote(source.Location{File: "a.stacky", Line: 1, Column: 3}, "then-branch pushed here")
	bag.Add(d)

	var buf strings.Builder
	Pretty(&buf, bag, PrettyOpts{Color: false})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a diagnostic line plus one note line, got %v", lines)
	}
	if !strings.HasPrefix(lines[1], "  a.stacky:1:3: info:") {
		t.Fatalf("expected an indented info note, got %q", lines[1])
	}
}

func TestPrettyColorDoesNotChangePlainContent(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.KindWarning, 0, source.Location{File: "a.stacky", Line: 1, Column: 1}, "shadowed definition"))

	var plain, colored strings.Builder
	Pretty(&plain, bag, PrettyOpts{Color: false})
	Pretty(&colored, bag, PrettyOpts{Color: true})

	if !strings.Contains(colored.String(), "shadowed definition") {
		t.Fatalf("expected the message to survive colorization, got %q", colored.String())
	}
	if plain.String() == colored.String() {
		t.Skip("color library disabled escape codes in this environment (e.g. NO_COLOR set)")
	}
}
