package xref

import (
	"testing"

	"stacky/internal/diag"
	"stacky/internal/ir"
)

func op(kind ir.OpKind) ir.Operation {
	return ir.NewOp(kind, ir.Type{}.Loc)
}

func TestLinkIfElseEnd(t *testing.T) {
	ops := []ir.Operation{
		op(ir.OpIf),   // 0
		op(ir.OpElse), // 1
		op(ir.OpEnd),  // 2
	}
	bag := diag.NewBag(0)
	Link(ops, Options{Reporter: diag.BagReporter{Bag: bag}})

	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if ops[0].Jump != 2 {
		t.Fatalf("expected if.jump == index_of_else+1 == 2, got %d", ops[0].Jump)
	}
	if ops[2].Jump != 3 {
		t.Fatalf("expected end.jump == 3, got %d", ops[2].Jump)
	}
}

func TestLinkWhileDoEnd(t *testing.T) {
	ops := []ir.Operation{
		op(ir.OpWhile), // 0
		op(ir.OpDo),    // 1
		op(ir.OpEnd),   // 2
	}
	bag := diag.NewBag(0)
	Link(ops, Options{Reporter: diag.BagReporter{Bag: bag}})

	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if ops[1].Jump != 3 {
		t.Fatalf("expected do.jump == end index+1 == 3, got %d", ops[1].Jump)
	}
	if ops[2].Jump != 0 {
		t.Fatalf("expected end.jump == while index 0, got %d", ops[2].Jump)
	}
}

func TestLinkReciprocity(t *testing.T) {
	// while ... do ... end nested inside an if
	ops := []ir.Operation{
		op(ir.OpIf),    // 0
		op(ir.OpWhile), // 1
		op(ir.OpDo),    // 2
		op(ir.OpEnd),   // 3, closes do
		op(ir.OpEnd),   // 4, closes if
	}
	bag := diag.NewBag(0)
	Link(ops, Options{Reporter: diag.BagReporter{Bag: bag}})

	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	// do at 2, end at 3: ops[2].jump should equal 4 (end index + 1)
	if ops[2].Jump != 4 {
		t.Fatalf("expected do.jump == end index+1 == 4, got %d", ops[2].Jump)
	}
	// end(do) at 3 should jump back to while at 1
	if ops[3].Jump != 1 {
		t.Fatalf("expected end(do).jump == while index 1, got %d", ops[3].Jump)
	}
	// if at 0 closed by end at 4
	if ops[0].Jump != 4 {
		t.Fatalf("expected if.jump == matching end index 4, got %d", ops[0].Jump)
	}
	if ops[4].Jump != 5 {
		t.Fatalf("expected end(if).jump == index+1 == 5, got %d", ops[4].Jump)
	}
}

func TestLinkUnbalancedIfReportsError(t *testing.T) {
	ops := []ir.Operation{op(ir.OpIf)}
	bag := diag.NewBag(0)
	Link(ops, Options{Reporter: diag.BagReporter{Bag: bag}})

	if !bag.HasErrors() {
		t.Fatalf("expected an unclosed `if` error")
	}
}

func TestLinkDoWithoutWhileReportsError(t *testing.T) {
	ops := []ir.Operation{op(ir.OpDo), op(ir.OpEnd)}
	bag := diag.NewBag(0)
	Link(ops, Options{Reporter: diag.BagReporter{Bag: bag}})

	if !bag.HasErrors() {
		t.Fatalf("expected a `do without while` error")
	}
}
