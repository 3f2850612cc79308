package main

import (
	"os"
	"strings"

	"stacky/internal/manifest"
)

// stackyPathEnv is a colon-separated list of include directories,
// generalizing original_source/src/arguments.cc's habit of appending
// the compiler's own "std" directory to include_search_paths
// unconditionally. Spec §6 states the core itself needs no environment
// variables, so this stays a CLI-shell concern (SPEC_FULL's supplemented
// feature) that simply contributes to the same []string of include
// directories `-I` already builds.
const stackyPathEnv = "STACKY_PATH"

// resolveIncludeDirs merges, in priority order, a project manifest's
// [build].include entries, the -I flags given on the command line, and
// STACKY_PATH, deduplicating while preserving the first occurrence of
// each directory so a later, redundant source doesn't reorder lookup.
func resolveIncludeDirs(m *manifest.Manifest, flagIncludes []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		dir = strings.TrimSpace(dir)
		if dir == "" || seen[dir] {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	for _, dir := range m.ResolvedIncludes() {
		add(dir)
	}
	for _, dir := range flagIncludes {
		add(dir)
	}
	if path := os.Getenv(stackyPathEnv); path != "" {
		for _, dir := range strings.Split(path, ":") {
			add(dir)
		}
	}
	return dirs
}
