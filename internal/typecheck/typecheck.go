// Package typecheck simulates each function body and main over an
// abstract Typestack (spec §4.7), grounded on
// original_source/src/types.cc's typecheck function: a linear forward
// scan with a stack of open-block snapshots for If/Else/While/Do, plus
// spec's own generalization of intrinsic effects into alternative
// StackEffects with type variables (already modeled by ir.StackEffect
// and ir.VarID). The reference lays both arms of an If/Else out
// back-to-back in its operation array and walks them in one pass,
// snapshotting and restoring the typestack at the Else marker; that
// single linear walk already gives every branch independent simulation
// without needing a literal fork/join worklist, so this checker keeps
// that shape rather than threading parallel path states.
package typecheck

import (
	"fmt"

	"stacky/internal/diag"
	"stacky/internal/ir"
	"stacky/internal/source"
)

// Options configures Run.
type Options struct {
	Reporter diag.Reporter
}

// Run typechecks every non-dynamic function that declares a stack effect,
// then main. Dynamic functions are checked lazily, on their first call
// site, by checkContext.callDynamic.
func Run(prog *ir.Program, opts Options) {
	ctx := &checkContext{words: prog.Words, opts: opts, checking: map[string]bool{}}
	for _, name := range prog.Words.Names() {
		w, ok := prog.Words.Get(name)
		if !ok || w.Kind != ir.WordFunction || w.Dynamic || w.Effect == nil {
			continue
		}
		ctx.checkFunction(w)
	}
	ctx.simulate(prog.Main, nil, nil, "main")
}

type checkContext struct {
	words    *ir.WordTable
	opts     Options
	checking map[string]bool // cycle guard while resolving a dynamic call chain
}

func (ctx *checkContext) checkFunction(w *ir.Word) {
	input := make([]ir.Type, len(w.Effect.Input))
	copy(input, w.Effect.Input)
	for i := range input {
		input[i].Loc = w.Loc
	}
	ctx.simulate(w.Body, input, w.Effect.Output, w.Name)
}

// block records the typestack snapshot taken when an If/Else/While/Do
// opened, restored or compared against when its End is reached.
type block struct {
	kind     ir.OpKind
	snapshot []ir.Type
}

// simulate walks ops linearly, mirroring the reference's typecheck loop,
// and validates the final (or every `return`ed) stack against expected.
// context names the enclosing function ("main" for the top level) for
// diagnostics.
func (ctx *checkContext) simulate(ops []ir.Operation, initial, expected []ir.Type, context string) []ir.Type {
	stack := append([]ir.Type(nil), initial...)
	var blocks []block
	returnSeen := false

	for i := range ops {
		op := ops[i]
		switch op.Kind {
		case ir.OpPushInt:
			stack = append(stack, op.Type.WithLoc(op.Loc))

		case ir.OpPushSymbol:
			stack = append(stack, ir.NewPointer(op.Loc))

		case ir.OpCast:
			if len(stack) < 1 {
				ctx.reportMissing(op.Loc, "cast", 1, 0)
				continue
			}
			stack = stack[:len(stack)-1]
			stack = append(stack, op.Type.WithLoc(op.Loc))

		case ir.OpIntrinsic:
			stack = ctx.applyIntrinsic(op, stack)

		case ir.OpCallSymbol:
			stack = ctx.applyCall(op, stack)

		case ir.OpIf:
			if len(stack) < 1 || stack[len(stack)-1].Kind != ir.Bool {
				ctx.reportTypeMismatch(op.Loc, "if", []ir.Type{ir.NewBool(op.Loc)}, stack)
			} else {
				stack = stack[:len(stack)-1]
			}
			blocks = append(blocks, block{kind: ir.OpIf, snapshot: snapshot(stack)})

		case ir.OpElse:
			if len(blocks) == 0 || blocks[len(blocks)-1].kind != ir.OpIf {
				ctx.report(diag.InternalAssertion, op.Loc, "`else` with no matching `if` block reached the type checker")
				continue
			}
			before := blocks[len(blocks)-1].snapshot
			blocks[len(blocks)-1] = block{kind: ir.OpElse, snapshot: snapshot(stack)}
			stack = append([]ir.Type(nil), before...)

		case ir.OpWhile:
			blocks = append(blocks, block{kind: ir.OpWhile, snapshot: snapshot(stack)})

		case ir.OpDo:
			if len(stack) < 1 || stack[len(stack)-1].Kind != ir.Bool {
				ctx.reportTypeMismatch(op.Loc, "do", []ir.Type{ir.NewBool(op.Loc)}, stack)
			} else {
				stack = stack[:len(stack)-1]
			}
			blocks = append(blocks, block{kind: ir.OpDo, snapshot: nil})

		case ir.OpEnd:
			if len(blocks) == 0 {
				ctx.report(diag.InternalAssertion, op.Loc, "`end` with no matching block reached the type checker")
				continue
			}
			closed := blocks[len(blocks)-1]
			blocks = blocks[:len(blocks)-1]

			switch closed.kind {
			case ir.OpIf, ir.OpElse:
				if returnSeen {
					stack = append([]ir.Type(nil), closed.snapshot...)
					returnSeen = false
				} else if !typesEqual(stack, closed.snapshot) {
					ctx.reportBranchMismatch(op.Loc, closed.snapshot, stack)
				}
			case ir.OpDo:
				if len(blocks) == 0 || blocks[len(blocks)-1].kind != ir.OpWhile {
					ctx.report(diag.InternalAssertion, op.Loc, "`do` block closed without an enclosing `while`")
					continue
				}
				whileBlock := blocks[len(blocks)-1]
				blocks = blocks[:len(blocks)-1]
				if !typesEqual(stack, whileBlock.snapshot) {
					ctx.reportLoopMismatch(op.Loc, whileBlock.snapshot, stack)
				}
			}

		case ir.OpReturn:
			returnSeen = true
			ctx.checkExit(op.Loc, context, expected, stack)
		}
	}

	for len(blocks) > 0 {
		b := blocks[len(blocks)-1]
		blocks = blocks[:len(blocks)-1]
		ctx.report(diag.InternalAssertion, source.Location{}, fmt.Sprintf("unclosed %s block reached the type checker", b.kind))
	}

	if len(ops) == 0 || ops[len(ops)-1].Kind != ir.OpReturn {
		var loc source.Location
		if len(ops) > 0 {
			loc = ops[len(ops)-1].Loc
		}
		ctx.checkExit(loc, context, expected, stack)
	}
	return stack
}

func snapshot(stack []ir.Type) []ir.Type { return append([]ir.Type(nil), stack...) }

func typesEqual(a, b []ir.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind {
			return false
		}
	}
	return true
}

// checkExit validates the accumulated stack against a function's (or
// main's) declared output, per spec §4.7's "expected output verifier".
// expected == nil skips validation (main declares no output; a dynamic
// callee's first resolution has none to check against).
func (ctx *checkContext) checkExit(loc source.Location, context string, expected, got []ir.Type) {
	if expected == nil {
		return
	}
	if typesEqual(expected, got) {
		return
	}
	b := diag.ReportErrorf(ctx.opts.Reporter, diag.TypeExitMismatch, loc,
		fmt.Sprintf("%s: exit stack does not match its declared output", context))
	for _, t := range expected {
		b = b.WithNote(t.Loc, "expected "+ir.TypeName(t))
	}
	for _, t := range got {
		b = b.WithNote(t.Loc, "found "+ir.TypeName(t))
	}
	b.Emit()
}

func (ctx *checkContext) reportMissing(loc source.Location, what string, want, have int) {
	diag.ReportErrorf(ctx.opts.Reporter, diag.TypeMissingOperand, loc,
		fmt.Sprintf("`%s` requires %d argument(s) on the stack, found %d", what, want, have)).Emit()
}

func (ctx *checkContext) reportTypeMismatch(loc source.Location, what string, want, have []ir.Type) {
	b := diag.ReportErrorf(ctx.opts.Reporter, diag.TypeMismatch, loc,
		fmt.Sprintf("`%s` has a type mismatch", what))
	for _, t := range want {
		b = b.WithNote(t.Loc, "expected "+ir.TypeName(t))
	}
	for _, t := range have {
		b = b.WithNote(t.Loc, "found "+ir.TypeName(t))
	}
	b.Emit()
}

func (ctx *checkContext) reportBranchMismatch(loc source.Location, thenStack, elseStack []ir.Type) {
	b := diag.ReportErrorf(ctx.opts.Reporter, diag.TypeBranchMismatch, loc,
		"branches must have matching typestacks")
	for _, t := range thenStack {
		b = b.WithNote(t.Loc, "then-branch leaves "+ir.TypeName(t))
	}
	for _, t := range elseStack {
		b = b.WithNote(t.Loc, "else-branch leaves "+ir.TypeName(t))
	}
	b.Emit()
}

func (ctx *checkContext) reportLoopMismatch(loc source.Location, before, after []ir.Type) {
	b := diag.ReportErrorf(ctx.opts.Reporter, diag.TypeLoopMismatch, loc, "loop differs stack")
	for _, t := range before {
		b = b.WithNote(t.Loc, "before loop body: "+ir.TypeName(t))
	}
	for _, t := range after {
		b = b.WithNote(t.Loc, "after loop body: "+ir.TypeName(t))
	}
	b.Emit()
}

func (ctx *checkContext) report(code diag.Code, loc source.Location, msg string) {
	diag.ReportErrorf(ctx.opts.Reporter, code, loc, msg).Emit()
}
