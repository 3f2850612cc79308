package codegen

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"stacky/internal/ir"
)

// NasmSink assembles a Program into a Linux x86-64 ELF executable by
// emitting NASM source and shelling out to an assembler and linker,
// exactly the arrangement spec §5 carves out an exception for ("the
// codegen sink may invoke the external assembler/linker as
// subprocesses"). Grounded on original_source/src/linux-x86_64.cc for
// the assembly itself and on the buffer-then-flush idiom of
// internal/backend/llvm/emit.go for how the Go side is structured.
type NasmSink struct {
	Options

	// run executes an external command and returns its combined output.
	// Overridable in tests so they can exercise Emit's orchestration
	// without actually invoking nasm/ld.
	run func(name string, args ...string) ([]byte, error)
}

// NewNasmSink builds a sink defaulting Assembler/Linker to "nasm"/"ld"
// when unset.
func NewNasmSink(opts Options) *NasmSink {
	if opts.Assembler == "" {
		opts.Assembler = "nasm"
	}
	if opts.Linker == "" {
		opts.Linker = "ld"
	}
	return &NasmSink{Options: opts, run: runCommand}
}

func runCommand(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// Emit renders prog to NASM source, assembles it to an object file, and
// links it into Options.OutputPath.
func (s *NasmSink) Emit(prog *ir.Program) error {
	asm, err := newEmitter(prog).emitModule()
	if err != nil {
		return fmt.Errorf("codegen: %w", err)
	}

	dir := filepath.Dir(s.OutputPath)
	base := filepath.Base(s.OutputPath)
	if !s.KeepAsm {
		tmp, err := os.MkdirTemp("", "stacky-asm-*")
		if err != nil {
			return fmt.Errorf("codegen: creating scratch directory: %w", err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	asmPath := filepath.Join(dir, base+".asm")
	objPath := filepath.Join(dir, base+".o")

	if err := os.WriteFile(asmPath, []byte(asm), 0o644); err != nil {
		return fmt.Errorf("codegen: writing %s: %w", asmPath, err)
	}

	if out, err := s.run(s.Assembler, "-f", "elf64", asmPath, "-o", objPath); err != nil {
		return fmt.Errorf("codegen: assembling %s: %w\n%s", asmPath, err, out)
	}

	if out, err := s.run(s.Linker, objPath, "-o", s.OutputPath); err != nil {
		return fmt.Errorf("codegen: linking %s: %w\n%s", objPath, err, out)
	}

	return os.Chmod(s.OutputPath, 0o755)
}
