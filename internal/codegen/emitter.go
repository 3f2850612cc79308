package codegen

import (
	"fmt"
	"strings"

	"stacky/internal/ir"
)

// Label prefixes mirror original_source/src/linux-x86_64.cc's
// Function_Prefix/symbol_prefix/instr_prefix constants, translated into
// legal NASM identifiers.
const (
	callStackLabel = "_stacky_callstack"
	callPtrLabel   = "_stacky_callptr"
	callStackDepth = 1024

	funcLabelPrefix = "_stacky_fn_"
	arrayLabelPrefix = "_stacky_arr_"
	stringLabelPrefix = "_stacky_str_"

	argcLabel = "_stacky_argc"
	argvLabel = "_stacky_argv"
)

// emitter accumulates NASM source in a buffer, the way
// internal/backend/llvm/emit.go's Emitter builds LLVM IR: one
// strings.Builder, a family of small emit* methods each responsible for
// one section or one operation kind, deterministic iteration everywhere
// a Program exposes an unordered structure.
type emitter struct {
	buf strings.Builder
	err error

	prog *ir.Program

	// required holds every instruction position, keyed by (scope, index),
	// that some Jump field actually targets. Computed directly from every
	// operation's Jump plus one past each body, because Return jumps to
	// that trailer position and no operation's Jump records it, so
	// jumpindex never covers it. Labels still get a ";; jump target"
	// comment when jumpindex also recorded the position, giving that
	// index a real consumer.
	required map[scopedIndex]bool
}

type scopedIndex struct {
	scope string // "" for main, else a function's stable id as a string
	index int
}

func newEmitter(prog *ir.Program) *emitter {
	e := &emitter{prog: prog, required: map[scopedIndex]bool{}}
	e.collectRequiredLabels()
	return e
}

func (e *emitter) collectRequiredLabels() {
	mark := func(scope string, body []ir.Operation) {
		for _, op := range body {
			if op.Jump == ir.EmptyJump {
				continue
			}
			e.required[scopedIndex{scope, op.Jump}] = true
		}
		// generate_instructions also targets one past the body for
		// Return's epilogue jump.
		e.required[scopedIndex{scope, len(body)}] = true
	}
	mark("", e.prog.Main)
	for _, name := range e.prog.Words.Names() {
		w, ok := e.prog.Words.Get(name)
		if !ok || w.Kind != ir.WordFunction {
			continue
		}
		mark(scopeOf(w), w.Body)
	}
}

func scopeOf(w *ir.Word) string { return fmt.Sprintf("%d", w.ID) }

// isJumpTarget maps scope (a word id string) back to the function name
// jumpindex keys its entries by, then checks prog.JumpTargets.
func (e *emitter) isJumpTarget(scope string, index int) bool {
	function := ""
	if scope != "" {
		for _, name := range e.prog.Words.Names() {
			if w, ok := e.prog.Words.Get(name); ok && w.Kind == ir.WordFunction && scopeOf(w) == scope {
				function = w.Name
				break
			}
		}
	}
	_, ok := e.prog.JumpTargets[ir.JumpKey{Function: function, Index: index}]
	return ok
}

func (e *emitter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	if _, err := fmt.Fprintf(&e.buf, format, args...); err != nil {
		e.err = err
	}
}

func (e *emitter) line(s string) { e.printf("%s\n", s) }

func funcLabel(id uint64) string   { return fmt.Sprintf("%s%d", funcLabelPrefix, id) }
func arrayLabel(id uint64) string  { return fmt.Sprintf("%s%d", arrayLabelPrefix, id) }
func stringLabel(id uint32) string { return fmt.Sprintf("%s%d", stringLabelPrefix, id) }

func instrLabel(scope string, idx int) string {
	if scope == "" {
		return fmt.Sprintf("_stacky_main_%d", idx)
	}
	return fmt.Sprintf("_stacky_body_%s_%d", scope, idx)
}

// emitModule renders the whole program: bss reservations, the read-only
// string table, then every function body followed by the entry point.
// Grounded on linux-x86_64.cc's generate_assembly, which does the same
// three passes in the same order over one output file.
func (e *emitter) emitModule() (string, error) {
	e.emitHeader()
	e.emitBSS()
	e.emitRodata()
	e.line("section .text")
	e.line("")

	for _, name := range e.prog.Words.Names() {
		w, ok := e.prog.Words.Get(name)
		if !ok || w.Kind != ir.WordFunction {
			continue
		}
		e.emitFunction(w)
	}

	e.emitEntryPoint()

	if e.err != nil {
		return "", e.err
	}
	return e.buf.String(), nil
}

func (e *emitter) emitHeader() {
	e.line("BITS 64")
	e.line("")
}

// emitBSS reserves the call stack, its depth counter, and one resb per
// array word, matching linux-x86_64.cc's asm_header .bss block.
func (e *emitter) emitBSS() {
	e.line("section .bss")
	e.printf("%s: resq %d\n", callStackLabel, callStackDepth)
	e.printf("%s: resq 1\n", callPtrLabel)
	e.printf("%s: resq 1\n", argcLabel)
	e.printf("%s: resq 1\n", argvLabel)

	for _, name := range e.prog.Words.Names() {
		w, ok := e.prog.Words.Get(name)
		if !ok || w.Kind != ir.WordArray {
			continue
		}
		size := w.ArrayBytes
		if size <= 0 {
			size = 1
		}
		e.printf("%s: resb %d\n", arrayLabel(w.ID), size)
	}
	e.line("")
}

// emitRodata writes one NUL-terminated db list per interned string,
// skipping ids blanked out by the optimizer's Prune. Pruned ids keep
// their slot (Interner never renumbers) so nothing downstream needs the
// label to exist for them; we simply don't emit one.
func (e *emitter) emitRodata() {
	e.line("section .rodata")
	for id, payload := range e.prog.Strings.Snapshot() {
		if id == 0 || payload == nil {
			continue
		}
		e.printf("%s: db %s, 0\n", stringLabel(uint32(id)), byteList(payload))
	}
	e.line("")
}

func byteList(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	parts := make([]string, len(payload))
	for i, b := range payload {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return strings.Join(parts, ", ")
}

// emitFunction writes one Function word's label, prologue, body, and
// epilogue. The prologue/epilogue pop the machine-stack return address
// into the dedicated call stack and back, so the data stack (also the
// machine stack) is never disturbed by a call's own return address --
// spec §6's "a separate call stack of return addresses", grounded on
// linux-x86_64.cc's generate_assembly per-function block.
func (e *emitter) emitFunction(w *ir.Word) {
	e.printf(";; fn %s\n", w.Name)
	e.printf("%s:\n", funcLabel(w.ID))
	e.emitPrologue()
	e.emitBody(scopeOf(w), w.Body)
	e.emitReturn()
	e.line("")
}

func (e *emitter) emitPrologue() {
	e.line("\tpop rax")
	e.printf("\tmov rbx, [%s]\n", callPtrLabel)
	e.printf("\tmov [%s + rbx*8], rax\n", callStackLabel)
	e.line("\tinc rbx")
	e.printf("\tmov [%s], rbx\n", callPtrLabel)
}

// emitReturn decrements the call-stack depth, pops the saved return
// address back onto the machine stack, and returns to it.
func (e *emitter) emitReturn() {
	e.printf("\tmov rbx, [%s]\n", callPtrLabel)
	e.line("\tdec rbx")
	e.printf("\tmov rax, [%s + rbx*8]\n", callStackLabel)
	e.printf("\tmov [%s], rbx\n", callPtrLabel)
	e.line("\tpush rax")
	e.line("\tret")
}

// emitEntryPoint emits _start over main's body, then an exit(0) trailer.
func (e *emitter) emitEntryPoint() {
	e.line("global _start")
	e.line("_start:")
	// Capture argc/argv off the kernel-provided initial stack layout
	// before main's body runs any push/pop of its own; argc/argv are
	// not part of linux-x86_64.cc, which never implements them.
	e.line("\tmov rax, [rsp]")
	e.printf("\tmov [%s], rax\n", argcLabel)
	e.line("\tlea rax, [rsp+8]")
	e.printf("\tmov [%s], rax\n", argvLabel)
	e.emitBody("", e.prog.Main)
	e.line(";; exit(0)")
	e.line("\tmov rax, 60")
	e.line("\txor rdi, rdi")
	e.line("\tsyscall")
}

// emitBody translates one operation body, labeling every instruction
// position the required set marks (see emitter.required) and appending
// a trailer label one past the body for Return to target.
func (e *emitter) emitBody(scope string, body []ir.Operation) {
	trailer := len(body)
	for i, op := range body {
		e.emitLabelIfRequired(scope, i)
		e.emitOp(scope, i, op, trailer)
	}
	e.emitLabelIfRequired(scope, trailer)
}

func (e *emitter) emitLabelIfRequired(scope string, idx int) {
	if !e.required[scopedIndex{scope, idx}] {
		return
	}
	if e.isJumpTarget(scope, idx) {
		e.printf("%s: ;; jump target\n", instrLabel(scope, idx))
		return
	}
	e.printf("%s:\n", instrLabel(scope, idx))
}

// emitOp translates a single operation, following linux-x86_64.cc's
// generate_instructions switch case for case.
func (e *emitter) emitOp(scope string, idx int, op ir.Operation, trailer int) {
	switch op.Kind {
	case ir.OpIntrinsic:
		e.emitIntrinsic(op.Intrinsic)
	case ir.OpCallSymbol:
		e.printf("\tcall %s\n", funcLabel(op.WordID))
	case ir.OpPushSymbol:
		e.emitPushSymbol(op)
	case ir.OpPushInt:
		e.printf("\tmov rax, %d\n", op.IntValue)
		e.line("\tpush rax")
	case ir.OpCast:
		// Casts are compile-time only; the value's bit pattern is unchanged.
	case ir.OpReturn:
		e.printf("\tjmp %s\n", instrLabel(scope, trailer))
	case ir.OpEnd:
		if idx+1 != op.Jump {
			e.printf("\tjmp %s\n", instrLabel(scope, op.Jump))
		}
	case ir.OpIf, ir.OpDo:
		e.line("\tpop rax")
		e.line("\ttest rax, rax")
		e.printf("\tjz %s\n", instrLabel(scope, op.Jump))
	case ir.OpElse:
		e.printf("\tjmp %s\n", instrLabel(scope, op.Jump))
	case ir.OpWhile:
		// no-op: only its label (if required) marks the loop's re-entry point.
	}
}

func (e *emitter) emitPushSymbol(op ir.Operation) {
	switch op.SymbolPrefix {
	case ir.SymbolString:
		e.printf("\tpush %s\n", stringLabel(op.StringID))
	case ir.SymbolFunction:
		e.printf("\tpush %s\n", funcLabel(op.WordID))
	case ir.SymbolArray:
		e.printf("\tpush %s\n", arrayLabel(op.WordID))
	}
}
