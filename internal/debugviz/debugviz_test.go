package debugviz

import (
	"strings"
	"testing"

	"stacky/internal/ir"
	"stacky/internal/source"
)

func loc() source.Location { return source.Location{File: "test.stacky", Line: 1, Column: 1} }

func sampleBody() []ir.Operation {
	cond := ir.NewOp(ir.OpPushInt, loc())
	cond.IntValue = 1
	body := []ir.Operation{
		cond,
		ir.NewOp(ir.OpIf, loc()),
		ir.NewOp(ir.OpIntrinsic, loc()),
		ir.NewOp(ir.OpEnd, loc()),
	}
	body[1].Jump = 3
	body[3].Jump = 4
	return body
}

func TestWriteDOTRendersIfBranches(t *testing.T) {
	prog := ir.NewProgram()
	prog.Main = sampleBody()

	var buf strings.Builder
	if err := WriteDOT(&buf, prog, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"digraph Program {",
		"label=IF",
		"[label=T]",
		"[label=F style=dashed]",
		"label=RETURN fontcolor=red",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected DOT output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteDOTUnknownFunctionErrors(t *testing.T) {
	prog := ir.NewProgram()
	if err := WriteDOT(&strings.Builder{}, prog, "missing"); err == nil {
		t.Fatalf("expected an error for an undefined function")
	}
}

func TestWriteDOTRejectsNonFunctionWord(t *testing.T) {
	prog := ir.NewProgram()
	prog.Words.Set("table", &ir.Word{Kind: ir.WordArray, Name: "table"})
	if err := WriteDOT(&strings.Builder{}, prog, "table"); err == nil {
		t.Fatalf("expected an error for a non-function word")
	}
}

func TestBuildNodesFoldsEndIntoBranchTargets(t *testing.T) {
	nodes := buildNodes(sampleBody())
	if len(nodes) != 4 {
		t.Fatalf("expected one node per operation, got %d", len(nodes))
	}
	ifNode := nodes[1]
	if len(ifNode.edges) != 2 {
		t.Fatalf("expected the `if` node to have two edges, got %+v", ifNode.edges)
	}
	// The End at index 3 jumps to 4 (one past the body); linkNext should
	// resolve the false edge straight to the RETURN sentinel rather than
	// stopping on the inert End node.
	if ifNode.edges[1].to != 4 {
		t.Fatalf("expected the false edge to resolve past `end` to 4, got %d", ifNode.edges[1].to)
	}
}
