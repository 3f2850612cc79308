package optimize

import (
	"stacky/internal/diag"
	"stacky/internal/ir"
)

// foldConditionsAll applies foldConditionsBody to main and every function,
// looping each body to its own fixed point (spec §4.8 pass 2).
func foldConditionsAll(prog *ir.Program, opts Options) bool {
	return forEachBody(prog, func(body []ir.Operation) ([]ir.Operation, bool) {
		return foldConditionsBody(body, opts)
	})
}

// foldConditionsBody repeatedly looks for a `PushInt c` immediately
// followed by `If` or `Do` and folds it away, restarting the scan after
// every fold since indices shift. Grounded on
// original_source/src/optimizer.cc's optimize_comptime_known_conditions,
// which scans the same pattern in a single pass re-examining the same
// position after a fold (`branch_op -= 1`); here each fold rebuilds the
// body outright via deleteAndRemap, so restarting the whole scan is the
// equivalent, simpler way to reach the same fixed point.
func foldConditionsBody(body []ir.Operation, opts Options) ([]ir.Operation, bool) {
	changed := false
	for {
		folded := false
		for branchOp := 1; branchOp < len(body); branchOp++ {
			conditionOp := branchOp - 1
			cond := body[conditionOp]
			branch := body[branchOp]
			if cond.Kind != ir.OpPushInt {
				continue
			}
			switch branch.Kind {
			case ir.OpDo:
				body = foldDo(body, conditionOp, branchOp, cond.IntValue, opts)
			case ir.OpIf:
				body = foldIf(body, conditionOp, branchOp, cond.IntValue, opts)
			default:
				continue
			}
			folded = true
			changed = true
			break
		}
		if !folded {
			break
		}
	}
	return body, changed
}

// findWhile locates the While opening the loop whose condition
// computation ends right before conditionOp, by scanning backward for
// the nearest While. Simpler than the reference's combined
// kind-or-jump backward search since a Do's condition never contains a
// nested loop's While without that loop closing its own Do first, so
// the nearest preceding While is always the match.
func findWhile(body []ir.Operation, conditionOp int) int {
	for i := conditionOp - 1; i >= 0; i-- {
		if body[i].Kind == ir.OpWhile {
			return i
		}
	}
	return -1
}

// foldDo folds a `PushInt c` immediately before a `Do`, per spec §4.8's
// two Do cases.
func foldDo(body []ir.Operation, conditionOp, branchOp int, condVal int64, opts Options) []ir.Operation {
	branch := body[branchOp]
	endIdx := branch.Jump - 1 // Do.Jump == matching End's index + 1
	whileIdx := findWhile(body, conditionOp)

	drop := make([]bool, len(body))
	if condVal != 0 {
		if endIdx+1 < len(body) {
			diag.ReportWarning(opts.Reporter, diag.OptDeadCode, body[endIdx+1].Loc,
				"loop is infinite: code after it is unreachable").Emit()
		}
		markRange(drop, endIdx, len(body)-1)
		drop[conditionOp] = true
		drop[branchOp] = true
		if whileIdx >= 0 {
			drop[whileIdx] = true
		}
		if opts.Verbose {
			diag.ReportInfo(opts.Reporter, diag.OptBranchFolded, branch.Loc, "optimizing infinite loop (condition is always true)").Emit()
		}
	} else {
		markRange(drop, conditionOp, endIdx)
		if whileIdx >= 0 {
			drop[whileIdx] = true
		}
		if opts.Verbose {
			diag.ReportInfo(opts.Reporter, diag.OptBranchFolded, branch.Loc, "optimizing never-executing loop (condition is always false)").Emit()
		}
	}
	return deleteAndRemap(body, drop)
}

// foldIf folds a `PushInt c` immediately before an `If`, per spec §4.8's
// two If cases. hasElse/elseIdx/endIdx are found by inspecting the kind
// at If.Jump-1 rather than re-deriving the reference's index arithmetic:
// If.Jump lands one past a matching Else when one exists, or directly on
// the matching End otherwise (spec §4.6).
func foldIf(body []ir.Operation, conditionOp, branchOp int, condVal int64, opts Options) []ir.Operation {
	branch := body[branchOp]
	target := branch.Jump

	hasElse := false
	elseIdx := -1
	endIdx := target
	if target-1 >= 0 && target-1 < len(body) && body[target-1].Kind == ir.OpElse {
		hasElse = true
		elseIdx = target - 1
		endIdx = body[elseIdx].Jump
	}

	drop := make([]bool, len(body))
	drop[conditionOp] = true
	drop[branchOp] = true

	if condVal != 0 {
		if hasElse {
			markRange(drop, elseIdx, endIdx)
		} else {
			drop[endIdx] = true
		}
		if opts.Verbose {
			diag.ReportInfo(opts.Reporter, diag.OptBranchFolded, branch.Loc, "optimizing always-true `if` (condition is always true)").Emit()
		}
	} else {
		if hasElse {
			// then-branch and the now-unreachable Else marker; the
			// else-body and its End survive as the new unconditional body.
			markRange(drop, branchOp+1, elseIdx)
		} else {
			markRange(drop, branchOp+1, endIdx)
		}
		if opts.Verbose {
			diag.ReportInfo(opts.Reporter, diag.OptBranchFolded, branch.Loc, "optimizing always-false `if` (condition is always false)").Emit()
		}
	}
	return deleteAndRemap(body, drop)
}
