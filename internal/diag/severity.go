// Package diag is the diagnostic sink shared by every compiler phase.
// It is grounded on the teacher's internal/diag package (Bag, Diagnostic,
// Reporter, ReportBuilder) with its Severity enum widened to the six
// diagnostic kinds spec §2/§7 requires.
package diag

// Kind classifies a diagnostic message. Spec §2 names six kinds; ordering
// here also doubles as severity for sorting (Bag.Sort/HasErrors).
type Kind uint8

const (
	// KindInfo is a purely informational note.
	KindInfo Kind = iota
	// KindOptimization reports a non-fatal optimizer observation (dead code
	// elided, a branch folded away).
	KindOptimization
	// KindCommand reports a problem with how the compiler was invoked.
	KindCommand
	// KindWarning is a recoverable issue (e.g. redefinition).
	KindWarning
	// KindError is a recoverable-but-failing issue; compilation continues
	// gathering diagnostics but will not reach codegen.
	KindError
	// KindCompilerBug marks an internal assertion failure; like KindError
	// it is fatal, so the compilation will not reach codegen.
	KindCompilerBug
)

func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindOptimization:
		return "optimization"
	case KindCommand:
		return "command"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	case KindCompilerBug:
		return "compiler-bug"
	default:
		return "unknown"
	}
}

// IsFatal reports whether a diagnostic of this kind should prevent codegen.
func (k Kind) IsFatal() bool {
	return k == KindError || k == KindCompilerBug
}
