package optimize

import (
	"fmt"

	"stacky/internal/diag"
	"stacky/internal/ir"
	"stacky/internal/source"
)

// removeUnreachable walks from main over every OpCallSymbol/OpPushSymbol
// following function calls and function/array address-of pushes,
// computing the set of words and interned strings actually reachable,
// then erases anything else. Grounded on
// original_source/src/optimizer.cc's remove_unused_words_and_strings
// (recursive walk marking Push_Symbol/Call_Symbol targets) and on
// smasonuk-sicpu/pkg/compiler/optimize.go's eliminateDeadFunctions
// (worklist-over-a-map idiom, adapted here to a plain map+slice worklist
// since Program's words are already keyed by name via WordTable).
func removeUnreachable(prog *ir.Program, opts Options) bool {
	liveWords := map[string]bool{}
	liveStrings := map[source.StringID]bool{}

	var walk func(body []ir.Operation)
	var worklist []string

	walk = func(body []ir.Operation) {
		for _, op := range body {
			switch op.Kind {
			case ir.OpCallSymbol:
				if !liveWords[op.Symbol] {
					liveWords[op.Symbol] = true
					worklist = append(worklist, op.Symbol)
				}
			case ir.OpPushSymbol:
				switch op.SymbolPrefix {
				case ir.SymbolString:
					liveStrings[source.StringID(op.StringID)] = true
				case ir.SymbolFunction, ir.SymbolArray:
					if !liveWords[op.Symbol] {
						liveWords[op.Symbol] = true
						worklist = append(worklist, op.Symbol)
					}
				}
			}
		}
	}

	walk(prog.Main)
	for len(worklist) > 0 {
		name := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		w, ok := prog.Words.Get(name)
		if !ok || w.Kind != ir.WordFunction {
			continue
		}
		walk(w.Body)
	}

	changed := false
	removedWords := 0
	for _, name := range prog.Words.Names() {
		w, ok := prog.Words.Get(name)
		if !ok {
			continue
		}
		if w.Kind != ir.WordFunction && w.Kind != ir.WordArray {
			continue
		}
		if liveWords[name] {
			continue
		}
		prog.Words.Delete(name)
		removedWords++
		changed = true
	}

	removedStrings := prog.Strings.Prune(liveStrings)
	if removedStrings > 0 {
		changed = true
	}

	if opts.Verbose && (removedWords > 0 || removedStrings > 0) {
		diag.ReportInfo(opts.Reporter, diag.OptUnreachablePrune, source.Location{},
			fmt.Sprintf("removed %d unreachable word(s) and %d unreachable string(s)", removedWords, removedStrings)).Emit()
	}

	return changed
}
