// Package optimize runs the three fixed-point passes spec §4.8
// describes over a Program: unreachable-entity elimination, compile-time
// branch folding, and stack constant folding. Grounded on
// original_source/src/optimizer.cc's optimize loop and its three
// namespace-level passes, generalized where the reference's exact
// erase/index bookkeeping is subsumed by a single generic
// "mark positions to drop, then remap every surviving jump by the count
// of drops strictly before its target" helper (deleteAndRemap), which is
// spec §4.8's own stated remapping rule rather than a bespoke port of
// each erase call.
package optimize

import "stacky/internal/ir"
import "stacky/internal/diag"

// Options configures Run.
type Options struct {
	Reporter diag.Reporter
	Verbose  bool
}

// Run repeats the three passes until none of them make further changes,
// matching the reference's `while (a || b || c) {}` loop precisely: a
// pass that reports progress skips the remaining passes for that
// iteration and the loop restarts immediately.
func Run(prog *ir.Program, opts Options) {
	for removeUnreachable(prog, opts) || foldConditionsAll(prog, opts) || foldConstantsAll(prog, opts) {
	}
}

// forEachBody applies fn to main and every function word's body in
// stable name order, replacing the body if fn reports it changed.
// Grounded on optimizer.cc's for_all_functions helper.
func forEachBody(prog *ir.Program, fn func([]ir.Operation) ([]ir.Operation, bool)) bool {
	changed := false
	if newMain, ok := fn(prog.Main); ok {
		prog.Main = newMain
		changed = true
	}
	for _, name := range prog.Words.Names() {
		w, ok := prog.Words.Get(name)
		if !ok || w.Kind != ir.WordFunction {
			continue
		}
		if newBody, ok := fn(w.Body); ok {
			w.Body = newBody
			changed = true
		}
	}
	return changed
}

// deleteAndRemap drops every body[i] with drop[i] set and adjusts every
// remaining operation's Jump by subtracting the number of dropped
// positions strictly before its original target (spec §4.8's
// remapping rule, applied uniformly to every fold case below instead of
// the reference's per-case erase/shift bookkeeping).
func deleteAndRemap(body []ir.Operation, drop []bool) []ir.Operation {
	n := len(body)
	before := make([]int, n+1)
	for i := 0; i < n; i++ {
		before[i+1] = before[i]
		if drop[i] {
			before[i+1]++
		}
	}
	out := make([]ir.Operation, 0, n-before[n])
	for i := 0; i < n; i++ {
		if drop[i] {
			continue
		}
		op := body[i]
		if op.Jump != ir.EmptyJump {
			op.Jump -= before[op.Jump]
		}
		out = append(out, op)
	}
	return out
}

func markRange(drop []bool, lo, hi int) {
	if lo < 0 || hi >= len(drop) || lo > hi {
		return
	}
	for i := lo; i <= hi; i++ {
		drop[i] = true
	}
}
