package jumpindex

import (
	"testing"

	"stacky/internal/diag"
	"stacky/internal/ir"
	"stacky/internal/source"
	"stacky/internal/xref"
)

func loc(line uint32) source.Location {
	return source.Location{File: "test.stacky", Line: line, Column: 1}
}

func link(t *testing.T, ops []ir.Operation) {
	t.Helper()
	bag := diag.NewBag(0)
	xref.Link(ops, xref.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("unexpected crossreference errors: %v", bag.Items())
	}
}

func TestRunIndexesReferencedTargetsNotOwnPositions(t *testing.T) {
	ifBody := []ir.Operation{
		ir.NewOp(ir.OpIf, loc(1)),  // 0: Jump lands on the End below
		ir.NewOp(ir.OpEnd, loc(2)), // 1: Jump lands one past itself
	}
	link(t, ifBody)

	loopBody := []ir.Operation{
		ir.NewOp(ir.OpWhile, loc(1)), // 0: never itself a jump target
		ir.NewOp(ir.OpDo, loc(2)),    // 1: Jump lands one past the End (loop exit)
		ir.NewOp(ir.OpEnd, loc(3)),   // 2: Jump lands back on the While (loop back)
	}
	link(t, loopBody)

	prog := ir.NewProgram()
	prog.Main = ifBody
	prog.Words.Set("loop", &ir.Word{
		Kind: ir.WordFunction,
		Name: "loop",
		Body: loopBody,
	})

	Run(prog)

	want := []ir.JumpKey{
		{Function: "", Index: ifBody[0].Jump},       // If's end target
		{Function: "", Index: ifBody[1].Jump},       // End's one-past target
		{Function: "loop", Index: loopBody[1].Jump}, // Do's loop-exit target
		{Function: "loop", Index: loopBody[2].Jump}, // End's loop-back target (the While)
	}
	for _, k := range want {
		if _, ok := prog.JumpTargets[k]; !ok {
			t.Fatalf("expected %+v to be indexed", k)
		}
	}
	if len(prog.JumpTargets) != len(want) {
		t.Fatalf("expected exactly %d indexed targets, got %d: %v", len(want), len(prog.JumpTargets), prog.JumpTargets)
	}

	// An If/Do's own position is never itself a jump target and must not
	// appear in the set (only what control flow actually jumps to).
	notWant := []ir.JumpKey{
		{Function: "", Index: 0},
		{Function: "loop", Index: 1},
	}
	for _, k := range notWant {
		if _, ok := prog.JumpTargets[k]; ok {
			t.Fatalf("did not expect %+v (an operation's own position) to be indexed", k)
		}
	}
}
