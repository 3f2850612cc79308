// Package compiler threads a source file through every phase: lexing,
// include/import resolution, string interning, definition
// registration, IR building, crossreferencing, type checking,
// optimization, and jump-target indexing, stopping short of codegen
// when any phase reports a fatal diagnostic. Grounded on
// original_source/src/errors.cc's global Compilation_Failed flag
// (raised by any Report::Error or Report::Compiler_Bug) generalized
// into a per-Compiler Failed field, since a single global would make
// concurrent or repeated compilations in the same process interfere
// with each other.
package compiler

import (
	"fmt"

	"stacky/internal/codegen"
	"stacky/internal/diag"
	"stacky/internal/ir"
	"stacky/internal/irbuild"
	"stacky/internal/jumpindex"
	"stacky/internal/lexer"
	"stacky/internal/optimize"
	"stacky/internal/registrar"
	"stacky/internal/resolve"
	"stacky/internal/source"
	"stacky/internal/token"
	"stacky/internal/typecheck"
	"stacky/internal/xref"
)

// DefaultImportExt is appended to an `import` target lacking an
// extension already, matching the reference implementation.
const DefaultImportExt = ".stacky"

// Options configures a Compiler, gathering the flags spec §6 exposes on
// the CLI plus anything a stacky.toml manifest contributed.
type Options struct {
	IncludeDirs       []string
	ImportExt         string
	WarnRedefinitions bool
	Optimize          bool
	Verbose           bool
	Reporter          diag.Reporter
}

// Compiler owns one compilation's accumulated state: the file set every
// Location borrows from, the diagnostic bag, the program being built,
// and whether a fatal diagnostic has been seen.
type Compiler struct {
	Options Options
	Files   *source.FileSet
	Bag     *diag.Bag
	Program *ir.Program

	// Failed is set the moment any phase reports a KindError or
	// KindCompilerBug diagnostic, and checked before every subsequent
	// phase runs -- spec §7's propagation policy, mirroring
	// errors.cc's Compilation_Failed.
	Failed bool
}

// New creates a Compiler ready to run Compile. Reporter defaults to a
// bag-backed one if Options.Reporter is nil, so Bag always reflects
// every diagnostic even when the caller supplied its own Reporter for
// live printing (a MultiReporter fanning out to both is the intended
// composition).
func New(opts Options) *Compiler {
	if opts.ImportExt == "" {
		opts.ImportExt = DefaultImportExt
	}
	bag := diag.NewBag(0)
	reporter := diag.Reporter(diag.BagReporter{Bag: bag})
	if opts.Reporter != nil {
		reporter = diag.MultiReporter{opts.Reporter, diag.BagReporter{Bag: bag}}
	}
	opts.Reporter = reporter
	return &Compiler{
		Options: opts,
		Files:   source.NewFileSet(),
		Bag:     bag,
		Program: ir.NewProgram(),
	}
}

// report tracks Failed alongside forwarding to the configured reporter,
// used for diagnostics compiler.go raises directly (a missing entry
// file, for instance) rather than ones a phase package already reports.
func (c *Compiler) report(kind diag.Kind, code diag.Code, loc source.Location, msg string) {
	c.Options.Reporter.Report(diag.New(kind, code, loc, msg))
	if kind.IsFatal() {
		c.Failed = true
	}
}

// Compile runs every phase up to and including the jump-target index
// over paths. Every source file is lexed and its tokens concatenated
// into one stream before resolution begins, mirroring
// original_source/src/stacky.cc's main loop ("for each source file:
// lex and append") rather than treating only the first positional file
// as the entry point. It returns at once when a source file cannot be
// read or an include/import cannot be resolved; otherwise it runs every
// phase through typechecking regardless of Failed (spec §7: "compilation
// continues gathering diagnostics"), and skips optimize/jumpindex when
// any of those phases reported a fatal diagnostic, since running the
// optimizer over a program known to be invalid has no defined meaning.
func (c *Compiler) Compile(paths []string) error {
	var toks []token.Token
	for _, path := range paths {
		fileID, err := c.Files.Load(path)
		if err != nil {
			c.report(diag.KindError, diag.ResolveNotAFile, source.Location{},
				fmt.Sprintf("cannot read %s: %v", path, err))
			return err
		}
		file := c.Files.Get(fileID)
		toks = append(toks, lexer.All(file, lexer.Options{Reporter: c.Options.Reporter})...)
	}
	c.syncFailed()

	var resolveFailed bool
	toks, resolveFailed = resolve.Resolve(toks, resolve.Options{
		IncludeDirs: c.Options.IncludeDirs,
		ImportExt:   c.Options.ImportExt,
		FileSet:     c.Files,
		Reporter:    c.Options.Reporter,
	})
	if resolveFailed {
		c.Failed = true
		return fmt.Errorf("compiler: could not resolve includes/imports of %v", paths)
	}

	lexer.InternStrings(toks, c.Program.Strings, c.Options.Reporter)
	c.syncFailed()

	c.registerIntrinsics()
	registrar.Register(toks, c.Program.Words, registrar.Options{
		WarnRedefinitions: c.Options.WarnRedefinitions,
		Reporter:          c.Options.Reporter,
	})
	c.syncFailed()

	c.Program.Main = irbuild.Build(toks, c.Program.Words, irbuild.Options{Reporter: c.Options.Reporter})
	c.syncFailed()

	xref.LinkProgram(c.Program, xref.Options{Reporter: c.Options.Reporter})
	c.syncFailed()

	typecheck.Run(c.Program, typecheck.Options{Reporter: c.Options.Reporter})
	c.syncFailed()

	if c.Failed {
		return fmt.Errorf("compiler: %v failed to compile", paths)
	}

	if c.Options.Optimize {
		optimize.Run(c.Program, optimize.Options{Reporter: c.Options.Reporter, Verbose: c.Options.Verbose})
	}
	jumpindex.Run(c.Program)

	return nil
}

// registerIntrinsics pre-populates the word table with every fixed
// primitive (spec §4.4's implicit "intrinsics are pre-registered
// words"), which registrar.Register requires to already be present
// before it runs over user declarations.
func (c *Compiler) registerIntrinsics() {
	for _, name := range ir.IntrinsicNames() {
		i, ok := ir.LookupIntrinsic(name)
		if !ok {
			continue
		}
		c.Program.Words.Set(name, &ir.Word{Kind: ir.WordIntrinsic, Name: name, Intrinsic: i})
	}
}

func (c *Compiler) syncFailed() {
	if c.Bag.HasErrors() {
		c.Failed = true
	}
}

// Emit hands the finished Program to sink, refusing when Compile
// reported a fatal diagnostic -- spec §7's "will not reach codegen".
func (c *Compiler) Emit(sink codegen.CodegenSink) error {
	if c.Failed {
		return fmt.Errorf("compiler: refusing to emit code for a failed compilation")
	}
	return sink.Emit(c.Program)
}

// WorstSeverity reports the most severe diagnostic kind seen so far,
// grounded on original_source/src/errors.cc's Compilation_Failed
// aggregation generalized to the full six-way severity spec §2 defines
// rather than a single failed/not-failed bit. cmd/stacky's exit code
// does not depend on it.
func (c *Compiler) WorstSeverity() diag.Kind {
	return c.Bag.WorstKind()
}
