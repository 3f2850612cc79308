package typecheck

import "stacky/internal/ir"

// alt builds one StackEffect alternative from bare kind lists, at the
// zero Location; the checker substitutes real Locations from the
// typestack entries it matches against.
func alt(input, output []ir.TypeKind) ir.StackEffect {
	return ir.StackEffect{Input: kinds(input), Output: kinds(output)}
}

func kinds(ks []ir.TypeKind) []ir.Type {
	out := make([]ir.Type, len(ks))
	for i, k := range ks {
		out[i] = ir.Type{Kind: k}
	}
	return out
}

// varAlt builds an alternative whose input/output slots are type
// variables, addressed by their "_N" index (spec §4.7's Dup/Swap/etc.
// catalog entries).
func varAlt(input, output []ir.VarID) ir.StackEffect {
	return ir.StackEffect{Input: varTypes(input), Output: varTypes(output)}
}

func varTypes(vars []ir.VarID) []ir.Type {
	out := make([]ir.Type, len(vars))
	for i, v := range vars {
		out[i] = ir.Type{Kind: ir.Variable, Var: v}
	}
	return out
}

const (
	v1 ir.VarID = iota
	v2
	v3
	v4
)

var intK = []ir.TypeKind{ir.Int}
var boolK = []ir.TypeKind{ir.Bool}
var ptrK = []ir.TypeKind{ir.Pointer}
var anyK = []ir.TypeKind{ir.Any}

// intrinsicEffects is the alternative catalog from spec §4.7, keyed by
// Intrinsic. Syscall_n and Call are handled specially in typecheck.go
// since their arity/behavior isn't a fixed alternative set.
var intrinsicEffects = map[ir.Intrinsic][]ir.StackEffect{
	ir.Drop:    {alt(anyK, nil)},
	ir.TwoDrop: {alt([]ir.TypeKind{ir.Any, ir.Any}, nil)},

	ir.Add: {
		alt([]ir.TypeKind{ir.Pointer, ir.Int}, ptrK),
		alt([]ir.TypeKind{ir.Int, ir.Pointer}, ptrK),
		alt([]ir.TypeKind{ir.Int, ir.Int}, intK),
	},
	ir.Subtract: {
		alt([]ir.TypeKind{ir.Pointer, ir.Pointer}, intK),
		alt([]ir.TypeKind{ir.Pointer, ir.Int}, ptrK),
		alt([]ir.TypeKind{ir.Int, ir.Int}, intK),
	},

	ir.Multiply:   {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.Divide:     {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.Modulo:     {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.Min:        {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.Max:        {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.BitAnd:     {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.BitOr:      {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.BitXor:     {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.ShiftLeft:  {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.ShiftRight: {alt([]ir.TypeKind{ir.Int, ir.Int}, intK)},
	ir.DivMod:     {alt([]ir.TypeKind{ir.Int, ir.Int}, []ir.TypeKind{ir.Int, ir.Int})},

	ir.Equal:        comparisonAlts(),
	ir.NotEqual:     comparisonAlts(),
	ir.Less:         comparisonAlts(),
	ir.LessEqual:    comparisonAlts(),
	ir.Greater:      comparisonAlts(),
	ir.GreaterEqual: comparisonAlts(),

	ir.BooleanNegate: {alt(boolK, boolK)},
	ir.BooleanAnd:    {alt([]ir.TypeKind{ir.Bool, ir.Bool}, boolK)},
	ir.BooleanOr:     {alt([]ir.TypeKind{ir.Bool, ir.Bool}, boolK)},

	ir.Dup:     {varAlt([]ir.VarID{v1}, []ir.VarID{v1, v1})},
	ir.TwoDup:  {varAlt([]ir.VarID{v1, v2}, []ir.VarID{v1, v2, v1, v2})},
	ir.Over:    {varAlt([]ir.VarID{v1, v2}, []ir.VarID{v1, v2, v1})},
	ir.TwoOver: {varAlt([]ir.VarID{v1, v2, v3, v4}, []ir.VarID{v1, v2, v3, v4, v1, v2})},
	ir.Swap:    {varAlt([]ir.VarID{v1, v2}, []ir.VarID{v2, v1})},
	ir.TwoSwap: {varAlt([]ir.VarID{v1, v2, v3, v4}, []ir.VarID{v3, v4, v1, v2})},
	ir.Tuck:    {varAlt([]ir.VarID{v1, v2}, []ir.VarID{v2, v1, v2})},
	ir.Rot:     {varAlt([]ir.VarID{v1, v2, v3}, []ir.VarID{v2, v3, v1})},

	ir.Random32: {alt(nil, intK)},
	ir.Random64: {alt(nil, intK)},

	ir.Load8:  {alt(ptrK, intK)},
	ir.Load16: {alt(ptrK, intK)},
	ir.Load32: {alt(ptrK, intK)},
	ir.Load64: {alt(ptrK, intK)},

	ir.Store8:  {alt([]ir.TypeKind{ir.Pointer, ir.Any}, nil)},
	ir.Store16: {alt([]ir.TypeKind{ir.Pointer, ir.Any}, nil)},
	ir.Store32: {alt([]ir.TypeKind{ir.Pointer, ir.Any}, nil)},
	ir.Store64: {alt([]ir.TypeKind{ir.Pointer, ir.Any}, nil)},

	ir.Top: {{
		Input:  varTypes([]ir.VarID{v1}),
		Output: []ir.Type{{Kind: ir.Variable, Var: v1}, {Kind: ir.Pointer}},
	}},

	// Argc/Argv aren't named in the abbreviated catalog; supplemented
	// here since main always has access to the process's argument
	// vector, matching original_source/src/types.cc's handling of them
	// as plain zero-input intrinsics.
	ir.Argc: {alt(nil, intK)},
	ir.Argv: {alt(nil, ptrK)},
}

func comparisonAlts() []ir.StackEffect {
	return []ir.StackEffect{
		alt([]ir.TypeKind{ir.Pointer, ir.Pointer}, boolK),
		alt([]ir.TypeKind{ir.Int, ir.Int}, boolK),
		alt([]ir.TypeKind{ir.Bool, ir.Bool}, boolK),
	}
}

// syscallEffect builds the Syscall_n alternative on demand: n distinct
// variables followed by the syscall number, producing one int.
func syscallEffect(n int) ir.StackEffect {
	input := make([]ir.Type, n+1)
	for i := 0; i < n; i++ {
		input[i] = ir.Type{Kind: ir.Variable, Var: ir.VarID(i)}
	}
	input[n] = ir.Type{Kind: ir.Int}
	return ir.StackEffect{Input: input, Output: []ir.Type{{Kind: ir.Int}}}
}
