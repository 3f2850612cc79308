package codegen

import "stacky/internal/ir"

// registerBBySize mirrors linux-x86_64.cc's Register_B_By_Size table,
// used by Load*/Store* to address a value of the right width through
// rbx without a separate code path per size.
var registerBBySize = map[int]string{
	1: "bl",
	2: "bx",
	4: "ebx",
	8: "rbx",
}

// syscallRegs is the Linux x86-64 syscall calling convention, argument
// count first: rax carries the syscall number, then rdi, rsi, rdx, r10,
// r8, r9 in order.
var syscallRegs = []string{"rdi", "rsi", "rdx", "r10", "r8", "r9"}

// emitIntrinsic translates one Intrinsic to concrete x86-64 instructions,
// following linux-x86_64.cc's emit_intrinsic switch case for case. The
// data stack is the machine stack throughout: every intrinsic pops its
// operands with `pop` and leaves its result with `push`.
func (e *emitter) emitIntrinsic(i ir.Intrinsic) {
	switch i {
	case ir.Add:
		e.binaryOp("add rbx, rax")
	case ir.Subtract:
		e.binaryOp("sub rbx, rax")
	case ir.Multiply:
		e.binaryOp("imul rbx, rax")
	case ir.Divide:
		e.divOp("rax")
	case ir.Modulo:
		e.divOp("rdx")
	case ir.DivMod:
		e.emitDivMod()
	case ir.Min:
		e.minMax("cmovl")
	case ir.Max:
		e.minMax("cmovg")

	case ir.BitAnd:
		e.binaryOp("and rbx, rax")
	case ir.BitOr:
		e.binaryOp("or rbx, rax")
	case ir.BitXor:
		e.binaryOp("xor rbx, rax")
	case ir.ShiftLeft:
		e.shiftOp("shl")
	case ir.ShiftRight:
		e.shiftOp("shr")

	case ir.Equal:
		e.compareOp("sete")
	case ir.NotEqual:
		e.compareOp("setne")
	case ir.Less:
		e.compareOp("setl")
	case ir.LessEqual:
		e.compareOp("setle")
	case ir.Greater:
		e.compareOp("setg")
	case ir.GreaterEqual:
		e.compareOp("setge")

	case ir.BooleanNegate:
		e.line("\tpop rax")
		e.line("\ttest rax, rax")
		e.line("\tsete al")
		e.line("\tmovzx rax, al")
		e.line("\tpush rax")
	case ir.BooleanAnd:
		e.booleanBinary("and")
	case ir.BooleanOr:
		e.booleanBinary("or")

	case ir.Drop:
		e.line("\tadd rsp, 8")
	case ir.TwoDrop:
		e.line("\tadd rsp, 16")
	case ir.Dup:
		e.line("\tpush qword [rsp]")
	case ir.TwoDup:
		e.line("\tpush qword [rsp+8]")
		e.line("\tpush qword [rsp+8]")
	case ir.Over:
		e.line("\tpush qword [rsp+8]")
	case ir.TwoOver:
		e.line("\tpush qword [rsp+24]")
		e.line("\tpush qword [rsp+24]")
	case ir.Swap:
		e.line("\tpop rax")
		e.line("\tpop rbx")
		e.line("\tpush rax")
		e.line("\tpush rbx")
	case ir.TwoSwap:
		e.line("\tpop rax") // d
		e.line("\tpop rbx") // c
		e.line("\tpop rcx") // b
		e.line("\tpop rdx") // a
		e.line("\tpush rbx")
		e.line("\tpush rax")
		e.line("\tpush rdx")
		e.line("\tpush rcx")
	case ir.Tuck:
		e.line("\tpop rax") // b
		e.line("\tpop rbx") // a
		e.line("\tpush rax")
		e.line("\tpush rbx")
		e.line("\tpush rax")
	case ir.Rot:
		e.line("\tpop rax") // c
		e.line("\tpop rbx") // b
		e.line("\tpop rcx") // a
		e.line("\tpush rbx")
		e.line("\tpush rax")
		e.line("\tpush rcx")

	case ir.Load8, ir.Load16, ir.Load32, ir.Load64:
		e.emitLoad(i)
	case ir.Store8, ir.Store16, ir.Store32, ir.Store64:
		e.emitStore(i)

	case ir.Top:
		e.line("\tpush rsp")
	case ir.Call:
		e.line("\tpop rax")
		e.line("\tcall rax")

	case ir.Argc:
		// _start's stack layout has argc at [rsp] before any pushes shift
		// it; emitEntryPoint saves it (and argv) once into .bss cells, so
		// argc/argv stay valid no matter how deep the data stack has grown
		// by the time they're read. Not present in linux-x86_64.cc, which never implements
		// argument access; grounded on the standard Linux x86-64 process
		// entry contract instead (argc/argv/envp on the initial stack).
		e.printf("\tmov rax, [%s]\n", argcLabel)
		e.line("\tpush rax")
	case ir.Argv:
		e.printf("\tmov rax, [%s]\n", argvLabel)
		e.line("\tpush rax")

	case ir.Syscall0, ir.Syscall1, ir.Syscall2, ir.Syscall3, ir.Syscall4, ir.Syscall5, ir.Syscall6:
		e.emitSyscall(i)

	case ir.Random32:
		e.line("\trdrand eax")
		e.line("\tpush rax")
	case ir.Random64:
		e.line("\trdrand rax")
		e.line("\tpush rax")
	}
}

// binaryOp pops the top two values (a := top, b := second) and pushes
// the result of applying instr (which computes into rbx). Matches the
// b-op-a convention foldConstantsBody's simulator uses, so a program
// that never triggers constant folding still executes identically to
// one that does.
func (e *emitter) binaryOp(instr string) {
	e.line("\tpop rax")
	e.line("\tpop rbx")
	e.printf("\t%s\n", instr)
	e.line("\tpush rbx")
}

// divOp computes b/a (Divide) or b%a (Modulo) and pushes the register
// holding the wanted half of the idiv result.
func (e *emitter) divOp(result string) {
	e.line("\tpop rcx") // a (divisor)
	e.line("\tpop rax") // b (dividend)
	e.line("\tcqo")
	e.line("\tidiv rcx")
	e.printf("\tpush %s\n", result)
}

func (e *emitter) emitDivMod() {
	e.line("\tpop rcx") // a
	e.line("\tpop rax") // b
	e.line("\tcqo")
	e.line("\tidiv rcx")
	e.line("\tpush rax") // quotient
	e.line("\tpush rdx") // remainder
}

func (e *emitter) minMax(cmov string) {
	e.line("\tpop rax")
	e.line("\tpop rbx")
	e.line("\tcmp rbx, rax")
	e.printf("\t%s rax, rbx\n", cmov)
	e.line("\tpush rax")
}

func (e *emitter) shiftOp(instr string) {
	e.line("\tpop rcx") // shift amount
	e.line("\tpop rax")
	e.printf("\t%s rax, cl\n", instr)
	e.line("\tpush rax")
}

func (e *emitter) compareOp(setcc string) {
	e.line("\tpop rax")
	e.line("\tpop rbx")
	e.line("\tcmp rbx, rax")
	e.printf("\t%s al\n", setcc)
	e.line("\tmovzx rax, al")
	e.line("\tpush rax")
}

func (e *emitter) booleanBinary(instr string) {
	e.line("\tpop rax")
	e.line("\tpop rbx")
	e.line("\ttest rax, rax")
	e.line("\tsetne al")
	e.line("\ttest rbx, rbx")
	e.line("\tsetne bl")
	e.printf("\t%s al, bl\n", instr)
	e.line("\tmovzx rax, al")
	e.line("\tpush rax")
}

func (e *emitter) emitLoad(i ir.Intrinsic) {
	size := loadStoreSize(i)
	reg := registerBBySize[size]
	e.line("\tpop rax")
	e.line("\txor rbx, rbx")
	e.printf("\tmov %s, [rax]\n", reg)
	e.line("\tpush rbx")
}

func (e *emitter) emitStore(i ir.Intrinsic) {
	size := loadStoreSize(i)
	reg := registerBBySize[size]
	e.line("\tpop rbx") // value
	e.line("\tpop rax") // address
	e.printf("\tmov [rax], %s\n", reg)
}

func loadStoreSize(i ir.Intrinsic) int {
	switch i {
	case ir.Load8, ir.Store8:
		return 1
	case ir.Load16, ir.Store16:
		return 2
	case ir.Load32, ir.Store32:
		return 4
	default:
		return 8
	}
}

func (e *emitter) emitSyscall(i ir.Intrinsic) {
	n, _ := ir.SyscallArgs(i)
	e.line("\tpop rax") // syscall number
	for k := 0; k < n; k++ {
		e.printf("\tpop %s\n", syscallRegs[k])
	}
	e.line("\tsyscall")
	e.line("\tpush rax")
}
