// Package xref computes If/Else/While/Do/End jump indices over an
// operation list (spec §4.6), a forward pass driven by a stack of
// open-block indices. It is grounded on the reference compiler's
// crossreference function, generalized to run once per function body
// plus once for main (the reference calls its version inline, once per
// body, at the end of IR building).
package xref

import (
	"fmt"

	"stacky/internal/diag"
	"stacky/internal/ir"
	"stacky/internal/source"
)

// Options configures Link.
type Options struct {
	Reporter diag.Reporter
}

// Link crossreferences one operation list in place.
func Link(ops []ir.Operation, opts Options) {
	var stack []int

	push := func(i int) { stack = append(stack, i) }
	pop := func() int {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}
	top := func() int { return stack[len(stack)-1] }

	for i := range ops {
		switch ops[i].Kind {
		case ir.OpWhile, ir.OpIf:
			push(i)

		case ir.OpDo:
			if len(stack) == 0 || ops[top()].Kind != ir.OpWhile {
				report(opts.Reporter, ops[i].Loc, "`do` without matching `while`")
				continue
			}
			whileIdx := top()
			ops[i].Jump = whileIdx
			pop()
			push(i)

		case ir.OpElse:
			if len(stack) == 0 || ops[top()].Kind != ir.OpIf {
				report(opts.Reporter, ops[i].Loc, "`else` without matching `if`")
				continue
			}
			ops[top()].Jump = i + 1
			pop()
			push(i)

		case ir.OpEnd:
			if len(stack) == 0 {
				report(opts.Reporter, ops[i].Loc, "`end` can only close `while..do` and `if` blocks")
				continue
			}
			switch opener := ops[top()]; opener.Kind {
			case ir.OpIf, ir.OpElse:
				ops[top()].Jump = i
				pop()
				ops[i].Jump = i + 1
			case ir.OpDo:
				doIdx := pop()
				ops[i].Jump = ops[doIdx].Jump
				ops[doIdx].Jump = i + 1
			default:
				report(opts.Reporter, ops[i].Loc, "`end` can only close `while..do` and `if` blocks")
			}
		}
	}

	for len(stack) > 0 {
		idx := pop()
		report(opts.Reporter, ops[idx].Loc, unclosedMessage(ops[idx].Kind))
	}
}

func unclosedMessage(kind ir.OpKind) string {
	switch kind {
	case ir.OpIf:
		return "expected matching `else` or `end` for this `if`"
	case ir.OpElse:
		return "expected matching `end` for this `else`"
	case ir.OpWhile:
		return "expected matching `do` for this `while`"
	case ir.OpDo:
		return "expected matching `end` for this `do`"
	default:
		return fmt.Sprintf("unclosed block (%s)", kind)
	}
}

func report(r diag.Reporter, loc source.Location, msg string) {
	if r != nil {
		var code diag.Code
		switch {
		case msg == "`else` without matching `if`":
			code = diag.ParseUnbalancedElse
		case msg == "`do` without matching `while`":
			code = diag.ParseDoWithoutWhile
		default:
			code = diag.ParseUnbalancedEnd
		}
		r.Report(diag.New(diag.KindError, code, loc, msg))
	}
}

// LinkProgram crossreferences main and every function body in prog.
func LinkProgram(prog *ir.Program, opts Options) {
	Link(prog.Main, opts)
	for _, name := range prog.Words.Names() {
		w, ok := prog.Words.Get(name)
		if !ok || w.Kind != ir.WordFunction {
			continue
		}
		Link(w.Body, opts)
	}
}
