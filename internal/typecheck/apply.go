package typecheck

import (
	"fmt"

	"stacky/internal/diag"
	"stacky/internal/ir"
	"stacky/internal/source"
)

// applyIntrinsic checks and applies one intrinsic operation's effect
// (spec §4.7's numbered procedure), handling Syscall_n's variable arity
// and Call's unconditional rejection as special cases outside the fixed
// catalog.
func (ctx *checkContext) applyIntrinsic(op ir.Operation, stack []ir.Type) []ir.Type {
	if op.Intrinsic == ir.Call {
		ctx.report(diag.TypeUnsupportedCall, op.Loc, "`call` is not supported by the type checker")
		return stack
	}
	if n, ok := ir.SyscallArgs(op.Intrinsic); ok {
		return ctx.applyEffect(op.Loc, op.Intrinsic.String(), []ir.StackEffect{syscallEffect(n)}, stack)
	}
	alts, ok := intrinsicEffects[op.Intrinsic]
	if !ok {
		ctx.report(diag.InternalAssertion, op.Loc, "no stack effect registered for intrinsic "+op.Intrinsic.String())
		return stack
	}
	return ctx.applyEffect(op.Loc, op.Intrinsic.String(), alts, stack)
}

// applyCall checks a CallSymbol against its target word: a non-dynamic
// word's declared effect is applied directly; a dynamic word is
// typechecked lazily against whatever is currently on the stack, and its
// resolved effect memoized for every later call (spec §4.7's "one-shot
// output verifier that adopts the first callee result").
func (ctx *checkContext) applyCall(op ir.Operation, stack []ir.Type) []ir.Type {
	w, ok := ctx.words.Get(op.Symbol)
	if !ok || w.Kind != ir.WordFunction {
		ctx.report(diag.InternalAssertion, op.Loc, "call to unresolved word "+op.Symbol)
		return stack
	}
	if !w.Dynamic {
		if w.Effect == nil {
			ctx.report(diag.TypeMissingEffect, op.Loc,
				fmt.Sprintf("`%s` has no declared stack effect and cannot be called under type checking", w.Name))
			return stack
		}
		return ctx.applyEffect(op.Loc, w.Name, []ir.StackEffect{*w.Effect}, stack)
	}
	return ctx.callDynamic(op, w, stack)
}

func (ctx *checkContext) callDynamic(op ir.Operation, w *ir.Word, stack []ir.Type) []ir.Type {
	if w.Effect != nil {
		// Already resolved by an earlier call site: adopt its output
		// unconditionally, per spec §4.7, without re-verifying the
		// current stack shape against it.
		out := make([]ir.Type, len(w.Effect.Output))
		for i, t := range w.Effect.Output {
			out[i] = t.WithLoc(op.Loc)
		}
		return out
	}
	if ctx.checking[w.Name] {
		ctx.report(diag.TypeUnsupportedCall, op.Loc,
			fmt.Sprintf("`%s` recursively calls itself before its dynamic effect is resolved", w.Name))
		return stack
	}

	inputSnapshot := snapshot(stack)
	ctx.checking[w.Name] = true
	out := ctx.simulate(w.Body, inputSnapshot, nil, w.Name)
	ctx.checking[w.Name] = false

	w.Effect = &ir.StackEffect{Input: snapshot(inputSnapshot), Output: snapshot(out)}
	return out
}

// applyEffect implements spec §4.7's alternative-matching procedure:
// ensure enough operands for the least-hungry alternative, try each
// alternative right-to-left with its own binding map, apply the first
// full match, or report the best partial match otherwise.
func (ctx *checkContext) applyEffect(loc source.Location, name string, alts []ir.StackEffect, stack []ir.Type) []ir.Type {
	minInputs := -1
	for _, a := range alts {
		if minInputs == -1 || len(a.Input) < minInputs {
			minInputs = len(a.Input)
		}
	}
	if minInputs == -1 {
		minInputs = 0
	}
	if len(stack) < minInputs {
		ctx.reportMissing(loc, name, minInputs, len(stack))
		return stack
	}

	bestScore := -1
	var bestAlt ir.StackEffect
	var bestBindings map[ir.VarID]ir.TypeKind

	for _, alt := range alts {
		if len(stack) < len(alt.Input) {
			continue
		}
		bindings := map[ir.VarID]ir.TypeKind{}
		score := 0
		full := true
		for k := 0; k < len(alt.Input); k++ {
			want := alt.Input[len(alt.Input)-1-k]
			actual := stack[len(stack)-1-k]
			if matches(want, actual, bindings) {
				score++
			} else {
				full = false
			}
		}
		if full && score == len(alt.Input) {
			return ctx.substituteAndApply(alt, bindings, stack, loc)
		}
		if score > bestScore {
			bestScore = score
			bestAlt = alt
			bestBindings = bindings
		}
	}

	if len(alts) == 0 {
		return stack
	}
	ctx.reportAlternativeMismatch(loc, name, bestAlt, bestBindings, stack)
	return stack
}

func (ctx *checkContext) substituteAndApply(alt ir.StackEffect, bindings map[ir.VarID]ir.TypeKind, stack []ir.Type, loc source.Location) []ir.Type {
	stack = stack[:len(stack)-len(alt.Input)]
	for _, out := range alt.Output {
		stack = append(stack, substitute(out, bindings, loc))
	}
	return stack
}

func substitute(t ir.Type, bindings map[ir.VarID]ir.TypeKind, loc source.Location) ir.Type {
	if t.Kind != ir.Variable {
		return t.WithLoc(loc)
	}
	if kind, ok := bindings[t.Var]; ok {
		return ir.Type{Kind: kind, Loc: loc}
	}
	return ir.Type{Kind: ir.Any, Loc: loc}
}

func matches(want, actual ir.Type, bindings map[ir.VarID]ir.TypeKind) bool {
	switch want.Kind {
	case ir.Any:
		return true
	case ir.Variable:
		if bound, ok := bindings[want.Var]; ok {
			return bound == actual.Kind || actual.Kind == ir.Any
		}
		bindings[want.Var] = actual.Kind
		return true
	default:
		return want.Kind == actual.Kind || actual.Kind == ir.Any
	}
}

func (ctx *checkContext) reportAlternativeMismatch(loc source.Location, name string, alt ir.StackEffect, bindings map[ir.VarID]ir.TypeKind, stack []ir.Type) {
	b := diag.ReportErrorf(ctx.opts.Reporter, diag.TypeMismatch, loc,
		fmt.Sprintf("`%s` has a type mismatch", name))
	n := len(alt.Input)
	for k := 0; k < n; k++ {
		want := alt.Input[n-1-k]
		wantName := ir.TypeName(want)
		if want.Kind == ir.Variable {
			if bound, ok := bindings[want.Var]; ok {
				wantName = bound.String()
			}
		}
		idx := len(stack) - 1 - k
		if idx < 0 {
			b = b.WithNote(loc, "expected "+wantName+", found nothing")
			continue
		}
		found := stack[idx]
		b = b.WithNote(found.Loc, "expected "+wantName+", found "+ir.TypeName(found))
	}
	b.Emit()
}
