// Package debugviz renders a Program's control flow as a static
// Graphviz graph or an interactive terminal browser, generalizing
// original_source/src/debug.cc's single-purpose .dot writer into two
// sinks over the same underlying node/edge model.
package debugviz

import (
	"fmt"
	"io"

	"stacky/internal/ir"
)

// FunctionBody resolves a function name to its body, matching main
// itself for the empty name. Both WriteDOT and the interactive browser
// share this lookup so `--control-flow-for` and `--control-flow` behave
// identically about which body they walk.
func FunctionBody(prog *ir.Program, function string) ([]ir.Operation, error) {
	if function == "" {
		return prog.Main, nil
	}
	w, ok := prog.Words.Get(function)
	if !ok {
		return nil, fmt.Errorf("word %q has not been defined", function)
	}
	if w.Kind != ir.WordFunction {
		return nil, fmt.Errorf("%q is not a function (control flow can only be graphed for functions)", function)
	}
	return w.Body, nil
}

// nodePrefix mirrors debug.cc's Node_Prefix, kept only for label text;
// it has no bearing on codegen's own label naming in internal/codegen.
const nodePrefix = "stacky_instr_"

// linkNext walks forward past End/Return the way debug.cc's link_next
// closure does, so an edge never terminates on a bookkeeping-only
// operation: an End's outgoing edge follows its own jump, and a Return
// always points at the body's exit node.
func linkNext(body []ir.Operation, from, to int) (int, bool) {
	skipped := false
	for to < len(body) {
		if body[to].Kind == ir.OpEnd {
			to = body[to].Jump
			skipped = true
			continue
		}
		if body[to].Kind == ir.OpReturn {
			to = len(body)
			skipped = true
		}
		break
	}
	return to, skipped
}

// WriteDOT writes a Graphviz digraph of function's control flow (main's,
// if function is empty) to w. Grounded directly on
// original_source/src/debug.cc's generate_control_flow_graph: the node
// shapes, edge styling (dashed false branches), and RETURN sentinel node
// all match that file's exact rendering choices.
func WriteDOT(w io.Writer, prog *ir.Program, function string) error {
	body, err := FunctionBody(prog, function)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "digraph Program {")
	fmt.Fprintln(w, `	labelloc="t";`)
	if function == "" {
		fmt.Fprintln(w, `	label="Control flow of a program";`)
	} else {
		fmt.Fprintf(w, "	label=\"Control flow of function `%s`\";\n", function)
	}

	edge := func(from, to int, style string) {
		to, _ = linkNext(body, from, to)
		if style != "" {
			fmt.Fprintf(w, "	%s%d -> %s%d %s;\n", nodePrefix, from, nodePrefix, to, style)
			return
		}
		fmt.Fprintf(w, "	%s%d -> %s%d;\n", nodePrefix, from, nodePrefix, to)
	}

	for i, op := range body {
		switch op.Kind {
		case ir.OpPushInt:
			fmt.Fprintf(w, "	%s%d [label=%d shape=record];\n", nodePrefix, i, op.IntValue)
			edge(i, i+1, "")
		case ir.OpCast:
			fmt.Fprintf(w, "	%s%d [label=%q shape=record];\n", nodePrefix, i, "cast "+ir.TypeName(op.Type))
			edge(i, i+1, "")
		case ir.OpIntrinsic:
			fmt.Fprintf(w, "	%s%d [label=%q shape=record];\n", nodePrefix, i, op.Intrinsic.String())
			edge(i, i+1, "")
		case ir.OpPushSymbol:
			fmt.Fprintf(w, "	%s%d [label=%q shape=record];\n", nodePrefix, i, op.Symbol)
			edge(i, i+1, "")
		case ir.OpCallSymbol:
			fmt.Fprintf(w, "	%s%d [label=\"CALL\\n%s\"];\n", nodePrefix, i, op.Symbol)
			edge(i, i+1, "")
		case ir.OpIf:
			fmt.Fprintf(w, "	%s%d [label=IF];\n", nodePrefix, i)
			edge(i, i+1, "[label=T]")
			edge(i, op.Jump, "[label=F style=dashed]")
		case ir.OpDo:
			fmt.Fprintf(w, "	%s%d [label=DO];\n", nodePrefix, i)
			edge(i, i+1, "[label=T]")
			edge(i, op.Jump, "[label=F style=dashed]")
		case ir.OpElse:
			fmt.Fprintf(w, "	%s%d [label=ELSE];\n", nodePrefix, i)
			edge(i, op.Jump, "")
		case ir.OpWhile:
			fmt.Fprintf(w, "	%s%d [label=WHILE];\n", nodePrefix, i)
			edge(i, i+1, "")
		case ir.OpReturn, ir.OpEnd:
			// unconditional; linkNext folds these into the edges above.
		}
	}

	fmt.Fprintf(w, "	%s%d [label=RETURN fontcolor=red];\n", nodePrefix, len(body))
	fmt.Fprintln(w, "}")
	return nil
}
