package ir

import (
	"testing"

	"stacky/internal/source"
)

func TestLookupIntrinsicMatchesIntrinsicNames(t *testing.T) {
	for _, name := range IntrinsicNames() {
		tag, ok := LookupIntrinsic(name)
		if !ok {
			t.Fatalf("expected %q to be a known intrinsic name", name)
		}
		if got := tag.String(); got != name {
			t.Fatalf("intrinsic %v stringifies to %q, want %q", tag, got, name)
		}
	}
}

func TestIntrinsicNamesHasNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range IntrinsicNames() {
		if seen[name] {
			t.Fatalf("duplicate intrinsic name %q", name)
		}
		seen[name] = true
	}
}

func TestSyscallArgsCounts(t *testing.T) {
	want := map[Intrinsic]int{
		Syscall0: 0, Syscall1: 1, Syscall2: 2, Syscall3: 3,
		Syscall4: 4, Syscall5: 5, Syscall6: 6,
	}
	for tag, n := range want {
		got, ok := SyscallArgs(tag)
		if !ok || got != n {
			t.Fatalf("SyscallArgs(%v) = %d, %v, want %d, true", tag, got, ok, n)
		}
	}
	if _, ok := SyscallArgs(Add); ok {
		t.Fatalf("expected a non-syscall intrinsic to report ok=false")
	}
}

func TestWordTableInsertionOrderPreservedAcrossReplace(t *testing.T) {
	wt := NewWordTable()
	wt.Set("foo", &Word{Kind: WordFunction, Name: "foo"})
	wt.Set("bar", &Word{Kind: WordFunction, Name: "bar"})
	wt.Set("foo", &Word{Kind: WordFunction, Name: "foo", Anonymous: true})

	names := wt.Names()
	if len(names) != 2 || names[0] != "foo" || names[1] != "bar" {
		t.Fatalf("expected [foo bar] preserved on replace, got %v", names)
	}
	w, ok := wt.Get("foo")
	if !ok || !w.Anonymous {
		t.Fatalf("expected the replaced word to win, got %+v, %v", w, ok)
	}
}

func TestWordTableDelete(t *testing.T) {
	wt := NewWordTable()
	wt.Set("foo", &Word{Name: "foo"})
	wt.Set("bar", &Word{Name: "bar"})
	wt.Delete("foo")

	if wt.Len() != 1 {
		t.Fatalf("expected 1 word after delete, got %d", wt.Len())
	}
	if _, ok := wt.Get("foo"); ok {
		t.Fatalf("expected foo to be gone")
	}
	if names := wt.Names(); len(names) != 1 || names[0] != "bar" {
		t.Fatalf("expected [bar], got %v", names)
	}
}

func TestWordTableDeleteUnknownIsNoop(t *testing.T) {
	wt := NewWordTable()
	wt.Set("foo", &Word{Name: "foo"})
	wt.Delete("nonexistent")
	if wt.Len() != 1 {
		t.Fatalf("expected delete of an unknown name to be a no-op, got len %d", wt.Len())
	}
}

func TestNewProgramInitializesTables(t *testing.T) {
	p := NewProgram()
	if p.Strings == nil || p.Words == nil || p.JumpTargets == nil {
		t.Fatalf("expected NewProgram to initialize every table, got %+v", p)
	}
	if p.Words.Len() != 0 {
		t.Fatalf("expected a fresh program to have no words")
	}
}

func TestStackEffectNumVars(t *testing.T) {
	e := StackEffect{
		Input:  []Type{NewVar(0, source.Location{}), NewInt(source.Location{})},
		Output: []Type{NewVar(2, source.Location{})},
	}
	if got := e.NumVars(); got != 3 {
		t.Fatalf("NumVars() = %d, want 3", got)
	}
}

func TestStackEffectNumVarsWithNoVariables(t *testing.T) {
	e := StackEffect{Input: []Type{NewInt(source.Location{})}, Output: []Type{NewBool(source.Location{})}}
	if got := e.NumVars(); got != 0 {
		t.Fatalf("NumVars() = %d, want 0", got)
	}
}

func TestTypeNameIsInjectiveUpToAny(t *testing.T) {
	loc := source.Location{}
	names := map[string]bool{}
	for _, ty := range []Type{NewInt(loc), NewBool(loc), NewPointer(loc), NewAny(loc)} {
		n := TypeName(ty)
		if names[n] {
			t.Fatalf("expected distinct concrete kinds to have distinct names, got duplicate %q", n)
		}
		names[n] = true
	}
	if TypeName(NewVar(0, loc)) == TypeName(NewVar(1, loc)) {
		t.Fatalf("expected distinct type variables to render distinct names")
	}
}

func TestTypeFromTypenameCoversEveryTypenameSpelling(t *testing.T) {
	cases := map[string]TypeKind{
		"bool": Bool, "ptr": Pointer, "int": Int,
		"i8": Int, "i16": Int, "i32": Int, "i64": Int,
		"u8": Int, "u16": Int, "u32": Int, "u64": Int,
		"any": Any,
	}
	for spelling, want := range cases {
		got := TypeFromTypename(spelling, source.Location{})
		if got.Kind != want {
			t.Fatalf("TypeFromTypename(%q).Kind = %v, want %v", spelling, got.Kind, want)
		}
	}
}
