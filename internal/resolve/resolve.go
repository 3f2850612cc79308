// Package resolve implements the include/import token-stream splicer
// (spec §4.2): it repeatedly finds the earliest Include/Import keyword,
// requires a preceding string literal naming the target file, and splices
// that file's lexed tokens in place of the (path, keyword) pair.
package resolve

import (
	"path/filepath"

	"stacky/internal/diag"
	"stacky/internal/lexer"
	"stacky/internal/source"
	"stacky/internal/token"
)

// Options configures resolution.
type Options struct {
	// IncludeDirs are searched, in order, for a single-segment path.
	IncludeDirs []string
	// ImportExt is appended to an `import` target lacking it already
	// (".stacky" in the reference implementation).
	ImportExt string
	FileSet   *source.FileSet
	Reporter  diag.Reporter
}

// maxSplices bounds the number of splice operations as a cycle-avoidance
// backstop for `include`, which — unlike `import` — has no dedup of its
// own (spec §4.2) and would otherwise recurse forever on a cyclic pair of
// mutually-including files.
const maxSplices = 100000

// Resolve splices every include/import in toks, returning the flattened
// stream. It stops at the first unresolved path (spec §4.2: "failure to
// resolve is a fatal diagnostic") and reports failed to true so the
// caller can refuse to proceed.
func Resolve(toks []token.Token, opts Options) (out []token.Token, failed bool) {
	imported := make(map[string]bool)
	splices := 0

	for {
		idx := findEarliest(toks)
		if idx == -1 {
			return toks, false
		}
		if splices >= maxSplices {
			report(opts.Reporter, diag.ResolveNotFound, toks[idx].Loc,
				"include cycle suspected: too many nested inclusions")
			return toks, true
		}
		splices++

		kw := toks[idx]
		if idx == 0 || toks[idx-1].Kind != token.String {
			report(opts.Reporter, diag.ResolveMissingPath, kw.Loc,
				kw.KeywordTag.String()+" requires a preceding string literal path")
			return toks, true
		}
		pathTok := toks[idx-1]

		rawPath, err := lexer.StringPayload(pathTok)
		if err != nil {
			report(opts.Reporter, diag.ResolveMissingPath, pathTok.Loc, "invalid path literal: "+err.Error())
			return toks, true
		}
		wantPath := string(rawPath)
		isImport := kw.KeywordTag == token.Import
		if isImport && opts.ImportExt != "" && filepath.Ext(wantPath) != opts.ImportExt {
			wantPath += opts.ImportExt
		}

		resolved, ok := search(wantPath, kw.Loc.File, opts.IncludeDirs)
		if !ok {
			report(opts.Reporter, diag.ResolveNotFound, kw.Loc, "cannot find file "+wantPath)
			return toks, true
		}

		canon := canonicalize(resolved)
		if isImport {
			if imported[canon] {
				toks = spliceInto(toks, idx-1, idx+1, nil)
				continue
			}
			imported[canon] = true
		}

		fileID, err := opts.FileSet.Load(resolved)
		if err != nil {
			report(opts.Reporter, diag.ResolveNotAFile, kw.Loc, "cannot read file "+resolved+": "+err.Error())
			return toks, true
		}
		file := opts.FileSet.Get(fileID)

		body := lexer.All(file, lexer.Options{Reporter: opts.Reporter})
		if len(body) > 0 && body[len(body)-1].Kind == token.EOF {
			body = body[:len(body)-1]
		}
		toks = spliceInto(toks, idx-1, idx+1, body)
	}
}

func findEarliest(toks []token.Token) int {
	for i, t := range toks {
		if t.Kind == token.Keyword && (t.KeywordTag == token.Include || t.KeywordTag == token.Import) {
			return i
		}
	}
	return -1
}

// spliceInto replaces toks[lo:hi] with replacement.
func spliceInto(toks []token.Token, lo, hi int, replacement []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks)-(hi-lo)+len(replacement))
	out = append(out, toks[:lo]...)
	out = append(out, replacement...)
	out = append(out, toks[hi:]...)
	return out
}

// search resolves wantPath per spec §4.2: relative to the includer's
// directory first when wantPath has multiple segments, otherwise the
// configured include directories in order.
func search(wantPath, includerFile string, includeDirs []string) (string, bool) {
	if filepath.Dir(wantPath) != "." {
		local := filepath.Join(filepath.Dir(includerFile), wantPath)
		if isFile(local) {
			return local, true
		}
	}
	for _, dir := range includeDirs {
		cand := filepath.Join(dir, wantPath)
		if isFile(cand) {
			return cand, true
		}
	}
	if isFile(wantPath) {
		return wantPath, true
	}
	return "", false
}

func canonicalize(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return filepath.Clean(real)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

func report(r diag.Reporter, code diag.Code, loc source.Location, msg string) {
	if r != nil {
		r.Report(diag.New(diag.KindError, code, loc, msg))
	}
}
