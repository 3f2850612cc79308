package diag

import "stacky/internal/source"

// Note is a secondary location referenced by a diagnostic, e.g. the
// Location a mismatched value was originally pushed at (spec §4.7).
type Note struct {
	Loc source.Location
	Msg string
}

// Diagnostic is a single reportable event.
type Diagnostic struct {
	Kind    Kind
	Code    Code
	Message string
	Primary source.Location
	Notes   []Note
}

// WithNote appends a note and returns the (possibly reallocated) diagnostic.
func (d Diagnostic) WithNote(loc source.Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}

func New(kind Kind, code Code, primary source.Location, msg string) Diagnostic {
	return Diagnostic{Kind: kind, Code: code, Primary: primary, Message: msg}
}
