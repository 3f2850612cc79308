package optimize

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

func pushIntVal(l uint32, v int64) ir.Operation {
	op := ir.NewOp(ir.OpPushInt, loc(l))
	op.Type = ir.NewInt(loc(l))
	op.IntValue = v
	return op
}

func intrinsic(l uint32, i ir.Intrinsic) ir.Operation {
	op := ir.NewOp(ir.OpIntrinsic, loc(l))
	op.Intrinsic = i
	return op
}

func link(t *testing.T, ops []ir.Operation) {
	t.Helper()
	bag := diag.NewBag(0)
	xref.Link(ops, xref.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("unexpected crossreference errors: %v", bag.Items())
	}
}

func TestFoldConstantArithmeticExpression(t *testing.T) {
	body := []ir.Operation{
		pushIntVal(1, 2),
		pushIntVal(1, 3),
		intrinsic(1, ir.Add),
	}
	opts := Options{Reporter: diag.NopReporter{}}

	out, changed := foldConstantsBody(body, opts)
	if !changed {
		t.Fatalf("expected the constant expression to fold")
	}
	if len(out) != 1 || out[0].Kind != ir.OpPushInt || out[0].IntValue != 5 {
		t.Fatalf("expected a single `PushInt 5`, got %+v", out)
	}

	// property 4: reapplying to the fold's own output makes no further change.
	_, changedAgain := foldConstantsBody(out, opts)
	if changedAgain {
		t.Fatalf("expected the optimizer to have reached a fixed point")
	}
}

func TestFoldConstantLiteralRunLeftAlone(t *testing.T) {
	// A run that already reads exactly like its own folded form should
	// not be rewritten (spec's "if the resulting stack differs").
	body := []ir.Operation{pushIntVal(1, 7)}
	_, changed := foldConstantsBody(body, Options{Reporter: diag.NopReporter{}})
	if changed {
		t.Fatalf("expected a single literal push to be left alone")
	}
}

func TestFoldAlwaysTrueIfKeepsThenBranch(t *testing.T) {
	body := []ir.Operation{
		pushIntVal(1, 1),             // 0: condition, always true
		ir.NewOp(ir.OpIf, loc(1)),    // 1
		intrinsic(1, ir.Dup),         // 2: then-branch
		ir.NewOp(ir.OpElse, loc(1)),  // 3
		intrinsic(1, ir.Drop),        // 4: else-branch
		ir.NewOp(ir.OpEnd, loc(1)),   // 5
	}
	link(t, body)

	out, changed := foldConditionsBody(body, Options{Reporter: diag.NopReporter{}})
	if !changed {
		t.Fatalf("expected the always-true `if` to fold")
	}
	if len(out) != 1 || out[0].Kind != ir.OpIntrinsic || out[0].Intrinsic != ir.Dup {
		t.Fatalf("expected only the then-branch (`dup`) to survive, got %+v", out)
	}

	_, changedAgain := foldConditionsBody(out, Options{Reporter: diag.NopReporter{}})
	if changedAgain {
		t.Fatalf("expected a fixed point after one fold")
	}
}

func TestFoldAlwaysFalseIfKeepsElseBranch(t *testing.T) {
	body := []ir.Operation{
		pushIntVal(1, 0),            // 0: condition, always false
		ir.NewOp(ir.OpIf, loc(1)),   // 1
		intrinsic(1, ir.Dup),        // 2: then-branch, dropped
		ir.NewOp(ir.OpElse, loc(1)), // 3
		intrinsic(1, ir.Drop),       // 4: else-branch, survives
		ir.NewOp(ir.OpEnd, loc(1)),  // 5
	}
	link(t, body)

	out, changed := foldConditionsBody(body, Options{Reporter: diag.NopReporter{}})
	if !changed {
		t.Fatalf("expected the always-false `if` to fold")
	}
	// The Else marker is dropped along with the then-branch, but End
	// survives per spec's literal "drop the End if there is no Else".
	if len(out) != 2 || out[0].Kind != ir.OpIntrinsic || out[0].Intrinsic != ir.Drop || out[1].Kind != ir.OpEnd {
		t.Fatalf("expected the else-branch (`drop`) followed by a surviving `end`, got %+v", out)
	}
}

func TestFoldAlwaysFalseIfWithoutElseDropsEverything(t *testing.T) {
	body := []ir.Operation{
		pushIntVal(1, 0),          // 0
		ir.NewOp(ir.OpIf, loc(1)), // 1
		intrinsic(1, ir.Dup),      // 2: then-branch, dropped
		ir.NewOp(ir.OpEnd, loc(1)), // 3
		intrinsic(1, ir.Drop),     // 4: unrelated trailing code, survives
	}
	link(t, body)

	out, changed := foldConditionsBody(body, Options{Reporter: diag.NopReporter{}})
	if !changed {
		t.Fatalf("expected the else-less always-false `if` to fold")
	}
	if len(out) != 1 || out[0].Intrinsic != ir.Drop {
		t.Fatalf("expected only the trailing `drop` to survive, got %+v", out)
	}
}

func TestFoldNeverExecutingLoopRemovesLoopKeepsTail(t *testing.T) {
	body := []ir.Operation{
		ir.NewOp(ir.OpWhile, loc(1)), // 0
		pushIntVal(2, 0),             // 1: condition, always false
		ir.NewOp(ir.OpDo, loc(2)),    // 2
		intrinsic(3, ir.Drop),        // 3: loop body, dropped
		ir.NewOp(ir.OpEnd, loc(4)),   // 4
		intrinsic(5, ir.Dup),         // 5: code after loop, survives
	}
	link(t, body)

	out, changed := foldConditionsBody(body, Options{Reporter: diag.NopReporter{}})
	if !changed {
		t.Fatalf("expected the never-executing loop to fold")
	}
	if len(out) != 1 || out[0].Intrinsic != ir.Dup {
		t.Fatalf("expected only the trailing `dup` to survive, got %+v", out)
	}
}

func TestFoldInfiniteLoopDropsTrailingDeadCode(t *testing.T) {
	body := []ir.Operation{
		ir.NewOp(ir.OpWhile, loc(1)), // 0
		pushIntVal(2, 1),             // 1: condition, always true
		ir.NewOp(ir.OpDo, loc(2)),    // 2
		intrinsic(3, ir.Drop),        // 3: loop body, kept
		ir.NewOp(ir.OpEnd, loc(4)),   // 4
		intrinsic(5, ir.Dup),         // 5: unreachable after an infinite loop
	}
	link(t, body)

	bag := diag.NewBag(0)
	out, changed := foldConditionsBody(body, Options{Reporter: diag.BagReporter{Bag: bag}})
	if !changed {
		t.Fatalf("expected the infinite loop to fold")
	}
	if len(out) != 1 || out[0].Intrinsic != ir.Drop {
		t.Fatalf("expected only the loop body (`drop`) to survive, got %+v", out)
	}
	foundWarning := false
	for _, d := range bag.Items() {
		if d.Code == diag.OptDeadCode {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatalf("expected a dead-code warning for the unreachable trailing `dup`")
	}
}

func TestRemoveUnreachableWordsAndStrings(t *testing.T) {
	prog := ir.NewProgram()

	usedStr := prog.Strings.Intern([]byte("used"))
	unusedStr := prog.Strings.Intern([]byte("unused"))

	usedCall := ir.NewOp(ir.OpCallSymbol, loc(1))
	usedCall.Symbol = "used_fn"
	pushUsedStr := ir.NewOp(ir.OpPushSymbol, loc(1))
	pushUsedStr.SymbolPrefix = ir.SymbolString
	pushUsedStr.StringID = uint32(usedStr)

	prog.Main = []ir.Operation{usedCall, pushUsedStr}

	prog.Words.Set("used_fn", &ir.Word{Kind: ir.WordFunction, Name: "used_fn", Loc: loc(1)})
	prog.Words.Set("dead_fn", &ir.Word{Kind: ir.WordFunction, Name: "dead_fn", Loc: loc(2)})

	changed := removeUnreachable(prog, Options{Reporter: diag.NopReporter{}})
	if !changed {
		t.Fatalf("expected removal of the unreachable function")
	}
	if _, ok := prog.Words.Get("dead_fn"); ok {
		t.Fatalf("expected `dead_fn` to be removed")
	}
	if _, ok := prog.Words.Get("used_fn"); !ok {
		t.Fatalf("expected `used_fn` to survive")
	}
	if payload, _ := prog.Strings.Lookup(unusedStr); payload != nil {
		t.Fatalf("expected the unused string to be pruned")
	}
	if payload, _ := prog.Strings.Lookup(usedStr); string(payload) != "used" {
		t.Fatalf("expected the used string to survive")
	}
}

func TestRunReachesFixedPoint(t *testing.T) {
	prog := ir.NewProgram()
	prog.Main = []ir.Operation{
		pushIntVal(1, 2),
		pushIntVal(1, 3),
		intrinsic(1, ir.Add),
	}
	Run(prog, Options{Reporter: diag.NopReporter{}})

	if len(prog.Main) != 1 || prog.Main[0].Kind != ir.OpPushInt || prog.Main[0].IntValue != 5 {
		t.Fatalf("expected `main` to fold down to `PushInt 5`, got %+v", prog.Main)
	}
}
