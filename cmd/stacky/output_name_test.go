package main

import "testing"

func TestDefaultOutputPath(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"main.stacky", "main"},
		{"src/hello.stacky", "src/hello"},
		{"./a.stacky", "a"},
	}
	for _, tc := range cases {
		got := defaultOutputPath(tc.input)
		if got != tc.want {
			t.Fatalf("defaultOutputPath(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
