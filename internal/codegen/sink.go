// Package codegen defines the contract spec §6 places on the IR-to-
// executable step and a concrete Linux x86-64/NASM implementation of
// it, grounded on original_source/src/linux-x86_64.cc's
// generate_assembly/generate_instructions/emit_intrinsic functions.
package codegen

import "stacky/internal/ir"

// CodegenSink is handed a read-only Program (its jump-target index
// already populated by internal/jumpindex) and is contractually
// required to:
//   - emit a .bss reservation for every Array word
//   - emit a read-only data section containing every interned string as
//     a NUL-terminated byte sequence
//   - emit a .text section with one labeled entry per Function word and
//     a program entry point whose body is main
//   - honor If/Else/Do/End jump semantics using the IR's computed
//     indices, and make Return jump to the function epilogue
//   - maintain a separate call stack of return addresses, since the
//     data stack doubles as the machine stack
//
// Assembling and linking the result into an executable is the sink's
// own responsibility; it may shell out to external tools (spec §5).
type CodegenSink interface {
	Emit(prog *ir.Program) error
}

// Options configures a concrete sink's output.
type Options struct {
	// OutputPath is the final linked executable's path.
	OutputPath string
	// KeepAsm retains the generated .asm/.o files next to OutputPath
	// instead of writing them to a temporary directory.
	KeepAsm bool
	// Assembler and Linker override the external tool names ("nasm",
	// "ld" by default), matching spec §5's "invoking the external
	// assembler/linker as subprocesses of the codegen sink".
	Assembler string
	Linker    string
}
