// Package source models input files and locations within them.
//
// A Location identifies a byte-precise position by (file, line, column) and,
// when known, the name of the enclosing function — the addressing scheme
// every later phase (lexer, resolver, IR builder, typechecker) uses to point
// diagnostics at source text.
package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileID identifies a loaded file within a FileSet.
type FileID uint32

// NoFileID marks the absence of a file (e.g. a synthesized Location).
const NoFileID FileID = 0

// File holds the decoded contents of one source file plus enough metadata
// to turn a byte offset into a 1-based line/column pair.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	lineIdx []uint32 // byte offset of every '\n'
	Hash    [32]byte
}

// LineCol is a 1-based human-readable position.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Offset converts a byte offset within File.Content to a LineCol.
// Tabs count as one column, per spec.
func (f *File) Offset(off uint32) LineCol {
	if len(f.lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lo, hi := 0, len(f.lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if f.lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := lo // number of newlines strictly before off
	var start uint32
	if line > 0 {
		start = f.lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line + 1), Col: off - start + 1}
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// FileSet owns every loaded file for the lifetime of a compilation.
// Location.File borrows File.Path directly: paths are never freed while
// the FileSet is alive, matching the "borrowed for program lifetime"
// invariant in the data model.
type FileSet struct {
	files []*File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// Get returns the file for id, or nil if id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	i := int(id)
	if i <= 0 || i > len(fs.files) {
		return nil
	}
	return fs.files[i-1]
}

// Lookup returns the FileID already assigned to path, if any.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[path]
	return id, ok
}

// AddContent registers in-memory content under path (tests, stdin) and
// returns its FileID, decoding a UTF-8/UTF-16 BOM if present.
func (fs *FileSet) AddContent(path string, content []byte) FileID {
	content = stripBOM(content)
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("stacky: too many source files: %w", err))
	}
	id := FileID(lenFiles + 1)
	f := &File{
		ID:      id,
		Path:    path,
		Content: content,
		lineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
	}
	fs.files = append(fs.files, f)
	fs.index[path] = id
	return id
}

// Load reads path from disk and registers it.
func (fs *FileSet) Load(path string) (FileID, error) {
	if id, ok := fs.index[path]; ok {
		return id, nil
	}
	// #nosec G304 -- path comes from the compiler's own include resolution
	raw, err := os.ReadFile(path)
	if err != nil {
		return NoFileID, err
	}
	return fs.AddContent(path, raw), nil
}

// stripBOM removes a leading UTF-8 or UTF-16 byte-order mark, using
// golang.org/x/text's BOM sniffer so the same detection logic that
// handles multi-byte encodings elsewhere in the ecosystem covers source
// ingestion here; the payload itself is always re-encoded to UTF-8.
func stripBOM(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) &&
		!bytes.HasPrefix(content, []byte{0xFE, 0xFF}) &&
		!bytes.HasPrefix(content, []byte{0xFF, 0xFE}) {
		return content
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, content)
	if err != nil {
		// Malformed BOM-prefixed content: fall back to the raw bytes and let
		// the lexer surface a lexical error instead of losing the file.
		return content
	}
	return out
}

// Location identifies a single point in a source file, with an optional
// enclosing function name for diagnostics raised while walking a function
// body.
type Location struct {
	File     string // borrowed file path; "" for a synthesized location
	Line     uint32 // 1-based
	Column   uint32 // 1-based
	Function string // enclosing function name, if any
}

// IsValid reports whether the location refers to real source text.
func (l Location) IsValid() bool { return l.File != "" }

// String renders "file:line:col", matching the diagnostic format in spec §7.
func (l Location) String() string {
	if !l.IsValid() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// WithFunction returns a copy of l annotated with the enclosing function.
func (l Location) WithFunction(name string) Location {
	l.Function = name
	return l
}

// LocationAt builds a Location for the given file at byte offset off.
func LocationAt(f *File, off uint32) Location {
	lc := f.Offset(off)
	return Location{File: f.Path, Line: lc.Line, Column: lc.Col}
}
