package main

import "path/filepath"

// defaultOutputPath derives an executable name from the first source
// file the way original_source/src/arguments.cc does when `-o` is
// absent: the first positional file's parent directory plus its stem
// (`fs::path(source_files[0]).stem()`).
func defaultOutputPath(firstSource string) string {
	dir := filepath.Dir(firstSource)
	base := filepath.Base(firstSource)
	stem := base[:len(base)-len(filepath.Ext(base))]
	if dir == "." {
		return stem
	}
	return filepath.Join(dir, stem)
}
