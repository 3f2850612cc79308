package ir

// Intrinsic tags the compile-time-fixed primitive set (spec §3).
type Intrinsic uint8

const (
	Add Intrinsic = iota
	Subtract
	Multiply
	Divide
	Modulo
	Min
	Max
	DivMod

	BitAnd
	BitOr
	BitXor
	ShiftLeft
	ShiftRight

	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual

	BooleanNegate
	BooleanAnd
	BooleanOr

	Drop
	TwoDrop
	Dup
	TwoDup
	Over
	TwoOver
	Swap
	TwoSwap
	Tuck
	Rot

	Load8
	Load16
	Load32
	Load64
	Store8
	Store16
	Store32
	Store64

	Top
	Call

	Argc
	Argv

	Syscall0
	Syscall1
	Syscall2
	Syscall3
	Syscall4
	Syscall5
	Syscall6

	Random32
	Random64
)

var intrinsicNames = map[Intrinsic]string{
	Add: "+", Subtract: "-", Multiply: "*", Divide: "/", Modulo: "%",
	Min: "min", Max: "max", DivMod: "divmod",
	BitAnd: "band", BitOr: "bor", BitXor: "bxor", ShiftLeft: "shl", ShiftRight: "shr",
	Equal: "=", NotEqual: "!=", Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	BooleanNegate: "not", BooleanAnd: "and", BooleanOr: "or",
	Drop: "drop", TwoDrop: "2drop", Dup: "dup", TwoDup: "2dup",
	Over: "over", TwoOver: "2over", Swap: "swap", TwoSwap: "2swap",
	Tuck: "tuck", Rot: "rot",
	Load8: "@8", Load16: "@16", Load32: "@32", Load64: "@64",
	Store8: "!8", Store16: "!16", Store32: "!32", Store64: "!64",
	Top: "top", Call: "call",
	Argc: "argc", Argv: "argv",
	Syscall0: "syscall0", Syscall1: "syscall1", Syscall2: "syscall2",
	Syscall3: "syscall3", Syscall4: "syscall4", Syscall5: "syscall5", Syscall6: "syscall6",
	Random32: "random32", Random64: "random64",
}

func (i Intrinsic) String() string {
	if s, ok := intrinsicNames[i]; ok {
		return s
	}
	return "?intrinsic"
}

// SyscallArgs reports the number of stack arguments a syscallN intrinsic
// consumes before the syscall number itself (spec §3's "Syscall_n").
func SyscallArgs(i Intrinsic) (int, bool) {
	switch i {
	case Syscall0:
		return 0, true
	case Syscall1:
		return 1, true
	case Syscall2:
		return 2, true
	case Syscall3:
		return 3, true
	case Syscall4:
		return 4, true
	case Syscall5:
		return 5, true
	case Syscall6:
		return 6, true
	default:
		return 0, false
	}
}

// intrinsicWords is the fixed name -> Intrinsic table intrinsics are
// registered under (spec §4.4's implicit "intrinsics are pre-registered
// words").
var intrinsicWords = map[string]Intrinsic{
	"+": Add, "-": Subtract, "*": Multiply, "/": Divide, "%": Modulo,
	"min": Min, "max": Max, "divmod": DivMod,
	"band": BitAnd, "bor": BitOr, "bxor": BitXor, "shl": ShiftLeft, "shr": ShiftRight,
	"=": Equal, "!=": NotEqual, "<": Less, "<=": LessEqual, ">": Greater, ">=": GreaterEqual,
	"not": BooleanNegate, "and": BooleanAnd, "or": BooleanOr,
	"drop": Drop, "2drop": TwoDrop, "dup": Dup, "2dup": TwoDup,
	"over": Over, "2over": TwoOver, "swap": Swap, "2swap": TwoSwap,
	"tuck": Tuck, "rot": Rot,
	"@8": Load8, "@16": Load16, "@32": Load32, "@64": Load64,
	"!8": Store8, "!16": Store16, "!32": Store32, "!64": Store64,
	"top": Top, "call": Call,
	"argc": Argc, "argv": Argv,
	"syscall0": Syscall0, "syscall1": Syscall1, "syscall2": Syscall2,
	"syscall3": Syscall3, "syscall4": Syscall4, "syscall5": Syscall5, "syscall6": Syscall6,
	"random32": Random32, "random64": Random64,
}

// LookupIntrinsic returns the intrinsic tag registered under name, if any.
func LookupIntrinsic(name string) (Intrinsic, bool) {
	i, ok := intrinsicWords[name]
	return i, ok
}

// IntrinsicNames returns every registered intrinsic name in a stable
// order, for populating the initial Words table deterministically.
func IntrinsicNames() []string {
	// Fixed literal order rather than a map iteration, so program output
	// (e.g. word ids) does not depend on Go's randomized map order.
	return []string{
		"+", "-", "*", "/", "%", "min", "max", "divmod",
		"band", "bor", "bxor", "shl", "shr",
		"=", "!=", "<", "<=", ">", ">=",
		"not", "and", "or",
		"drop", "2drop", "dup", "2dup", "over", "2over", "swap", "2swap", "tuck", "rot",
		"@8", "@16", "@32", "@64", "!8", "!16", "!32", "!64",
		"top", "call", "argc", "argv",
		"syscall0", "syscall1", "syscall2", "syscall3", "syscall4", "syscall5", "syscall6",
		"random32", "random64",
	}
}
