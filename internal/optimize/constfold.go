package optimize

import (
	"stacky/internal/diag"
	"stacky/internal/ir"
)

// foldConstantsAll applies foldConstantsBody to main and every function.
// Each call folds at most one run per body, matching
// original_source/src/optimizer.cc's constant_folding, which returns as
// soon as it splices one run rather than continuing to scan; the outer
// fixed-point loop in Run calls back in to find the next one.
func foldConstantsAll(prog *ir.Program, opts Options) bool {
	return forEachBody(prog, func(body []ir.Operation) ([]ir.Operation, bool) {
		return foldConstantsBody(body, opts)
	})
}

// foldConstantsBody simulates a concrete integer stack across a maximal
// run of PushInt plus pure stack/arithmetic intrinsics (spec §4.8 pass
// 3). The run aborts at any operation the reference's constant_folding
// cannot simulate: symbol pushes, calls, casts, control flow, or an
// intrinsic outside the fixed set it names.
func foldConstantsBody(body []ir.Operation, opts Options) ([]ir.Operation, bool) {
	startIdx := -1
	var stack []int64

	finish := func(i int) ([]ir.Operation, bool) {
		defer func() { startIdx = -1; stack = nil }()
		if startIdx < 0 || startIdx+1 == i {
			return body, false
		}
		run := body[startIdx:i]
		if runMatchesStack(run, stack) {
			return body, false
		}

		replacement := make([]ir.Operation, len(stack))
		loc := run[0].Loc
		for k, v := range stack {
			op := ir.NewOp(ir.OpPushInt, loc)
			op.Type = ir.NewInt(loc)
			op.IntValue = v
			replacement[k] = op
		}

		delta := len(replacement) - len(run)
		out := make([]ir.Operation, 0, len(body)+delta)
		out = append(out, body[:startIdx]...)
		out = append(out, replacement...)
		out = append(out, body[i:]...)
		for idx := range out {
			if out[idx].Jump != ir.EmptyJump && out[idx].Jump > startIdx {
				out[idx].Jump += delta
			}
		}
		if opts.Verbose {
			diag.ReportInfo(opts.Reporter, diag.OptBranchFolded, loc, "folding constant stack expression").Emit()
		}
		return out, true
	}

	for i := 0; i < len(body); i++ {
		op := body[i]
		if startIdx < 0 {
			if op.Kind != ir.OpPushInt {
				continue
			}
			startIdx = i
		}

		switch op.Kind {
		case ir.OpPushSymbol, ir.OpCallSymbol, ir.OpCast,
			ir.OpEnd, ir.OpIf, ir.OpElse, ir.OpWhile, ir.OpDo, ir.OpReturn:
			if out, applied := finish(i); applied {
				return out, true
			}
		case ir.OpPushInt:
			stack = append(stack, op.IntValue)
		case ir.OpIntrinsic:
			if !applyFoldIntrinsic(op.Intrinsic, &stack) {
				if out, applied := finish(i); applied {
					return out, true
				}
			}
		}
	}
	if out, applied := finish(len(body)); applied {
		return out, true
	}
	return body, false
}

func runMatchesStack(run []ir.Operation, stack []int64) bool {
	if len(run) != len(stack) {
		return false
	}
	for k, op := range run {
		if op.Kind != ir.OpPushInt || op.IntValue != stack[k] {
			return false
		}
	}
	return true
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// applyFoldIntrinsic simulates one intrinsic over the concrete stack, per
// the fixed set original_source/src/optimizer.cc's constant_folding
// switch names. It reports false (aborting the run) on any intrinsic
// outside that set, or when the simulated stack is too shallow.
func applyFoldIntrinsic(op ir.Intrinsic, stack *[]int64) bool {
	s := *stack

	binary := func(f func(a, b int64) (int64, bool)) bool {
		if len(s) < 2 {
			return false
		}
		a, b := s[len(s)-1], s[len(s)-2]
		r, ok := f(a, b)
		if !ok {
			return false
		}
		s = s[:len(s)-2]
		s = append(s, r)
		*stack = s
		return true
	}

	switch op {
	case ir.Add:
		return binary(func(a, b int64) (int64, bool) { return b + a, true })
	case ir.Subtract:
		return binary(func(a, b int64) (int64, bool) { return b - a, true })
	case ir.Multiply:
		return binary(func(a, b int64) (int64, bool) { return b * a, true })
	case ir.Divide:
		return binary(func(a, b int64) (int64, bool) {
			if a == 0 {
				return 0, false
			}
			return b / a, true
		})
	case ir.Modulo:
		return binary(func(a, b int64) (int64, bool) {
			if a == 0 {
				return 0, false
			}
			return b % a, true
		})
	case ir.BitAnd:
		return binary(func(a, b int64) (int64, bool) { return b & a, true })
	case ir.BitOr:
		return binary(func(a, b int64) (int64, bool) { return b | a, true })
	case ir.BitXor:
		return binary(func(a, b int64) (int64, bool) { return b ^ a, true })
	case ir.ShiftLeft:
		return binary(func(a, b int64) (int64, bool) { return b << uint64(a), true })
	case ir.ShiftRight:
		return binary(func(a, b int64) (int64, bool) { return b >> uint64(a), true })
	case ir.Equal:
		return binary(func(a, b int64) (int64, bool) { return boolToInt(b == a), true })
	case ir.NotEqual:
		return binary(func(a, b int64) (int64, bool) { return boolToInt(b != a), true })
	case ir.Less:
		return binary(func(a, b int64) (int64, bool) { return boolToInt(b < a), true })
	case ir.LessEqual:
		return binary(func(a, b int64) (int64, bool) { return boolToInt(b <= a), true })
	case ir.Greater:
		return binary(func(a, b int64) (int64, bool) { return boolToInt(b > a), true })
	case ir.GreaterEqual:
		return binary(func(a, b int64) (int64, bool) { return boolToInt(b >= a), true })
	case ir.Max:
		return binary(func(a, b int64) (int64, bool) {
			if a > b {
				return a, true
			}
			return b, true
		})
	case ir.Min:
		return binary(func(a, b int64) (int64, bool) {
			if a < b {
				return a, true
			}
			return b, true
		})

	case ir.Drop:
		if len(s) < 1 {
			return false
		}
		s = s[:len(s)-1]
	case ir.Dup:
		if len(s) < 1 {
			return false
		}
		s = append(s, s[len(s)-1])
	case ir.TwoDup:
		if len(s) < 2 {
			return false
		}
		a, b := s[len(s)-2], s[len(s)-1]
		s = append(s, a, b)
	case ir.Over:
		if len(s) < 2 {
			return false
		}
		s = append(s, s[len(s)-2])
	case ir.Rot: // a b c -- b c a
		if len(s) < 3 {
			return false
		}
		n := len(s)
		a, b, c := s[n-3], s[n-2], s[n-1]
		s[n-3], s[n-2], s[n-1] = b, c, a
	case ir.Swap:
		if len(s) < 2 {
			return false
		}
		n := len(s)
		s[n-1], s[n-2] = s[n-2], s[n-1]
	case ir.Tuck: // a b -- b a b
		if len(s) < 2 {
			return false
		}
		b := s[len(s)-1]
		s = append(s, b)
		n := len(s)
		s[n-3], s[n-2] = s[n-2], s[n-3]

	default:
		// Two_Drop, Two_Over, Two_Swap, Div_Mod, Boolean_*, Load*, Store*,
		// Top, Call, Argc, Argv, Random*, Syscall_n: not simulated, abort.
		return false
	}

	*stack = s
	return true
}
