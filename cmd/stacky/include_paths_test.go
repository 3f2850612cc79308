package main

import (
	"os"
	"testing"

	"stacky/internal/manifest"
)

func TestResolveIncludeDirsMergesAndDedupes(t *testing.T) {
	t.Setenv("STACKY_PATH", "/std:/vendor")

	m := &manifest.Manifest{Root: "/proj", Config: manifest.Config{
		Build: manifest.BuildConfig{Include: []string{"lib"}},
	}}

	got := resolveIncludeDirs(m, []string{"/proj/lib", "/extra"})
	want := []string{"/proj/lib", "/extra", "/std", "/vendor"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestResolveIncludeDirsWithoutEnv(t *testing.T) {
	os.Unsetenv("STACKY_PATH")
	m := &manifest.Manifest{}
	got := resolveIncludeDirs(m, []string{"a", "a", "b"})
	want := []string{"a", "b"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}
