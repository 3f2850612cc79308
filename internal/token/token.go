package token

import "stacky/internal/source"

// ByteSize is an optional width annotation on an Integer token, matching
// the `/[iu](8|16|32|64)/` suffix grammar in spec §4.1. Zero means
// "unspecified".
type ByteSize uint8

const (
	SizeNone ByteSize = 0
	Size8    ByteSize = 1
	Size16   ByteSize = 2
	Size32   ByteSize = 4
	Size64   ByteSize = 8
)

// Token is the flat, tagged-union shape produced by the lexer. Most fields
// are set once by the lexer; StringID is filled in later by the string
// interner (§4.3), and AnonID is filled in later by the definition
// registrar when the token spells an anonymous `&fun` (§4.4).
type Token struct {
	Kind Kind
	Loc  source.Location
	Text string // raw source text, exactly as written

	// Integer literals.
	IValue   int64
	Size     ByteSize
	IsSigned bool

	// Keyword tokens.
	KeywordTag KeywordTag

	// String literals. RawPayload holds the bytes between the delimiters
	// exactly as lexed (escapes intact); the string interner decodes it
	// with the same escape rules as character literals and fills in
	// StringID (spec §4.3).
	RawPayload []byte
	StringID   source.StringID

	// Anonymous `&fun` occurrences: filled in by the definition registrar.
	AnonID  uint64
	HasAnon bool
}

// IsKeyword reports whether t is a Keyword token with the given tag.
func (t Token) IsKeyword(tag KeywordTag) bool {
	return t.Kind == Keyword && t.KeywordTag == tag
}
