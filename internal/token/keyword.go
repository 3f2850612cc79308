package token

import "sort"

// KeywordTag enumerates the fixed keyword vocabulary (spec §3).
type KeywordTag uint8

const (
	End KeywordTag = iota
	If
	Else
	While
	Do
	Include
	Import
	Return
	Bool
	Dynamic
	Typename
	StackEffectDefinition // "is"
	StackEffectDivider    // "--"
	Array                 // one of []byte []u8 []u16 []u32 []u64 []usize
	Constant
	Function
)

func (t KeywordTag) String() string {
	switch t {
	case End:
		return "end"
	case If:
		return "if"
	case Else:
		return "else"
	case While:
		return "while"
	case Do:
		return "do"
	case Include:
		return "include"
	case Import:
		return "import"
	case Return:
		return "return"
	case Bool:
		return "bool"
	case Dynamic:
		return "dyn"
	case Typename:
		return "typename"
	case StackEffectDefinition:
		return "is"
	case StackEffectDivider:
		return "--"
	case Array:
		return "array"
	case Constant:
		return "constant"
	case Function:
		return "fun"
	default:
		return "unknown-keyword"
	}
}

// arrayKeywords maps the concrete `[]T` spellings to their element size in
// bytes, per spec §4.4 ("the 4th character of the keyword selects element
// size").
var arrayKeywords = map[string]int{
	"[]byte":  1,
	"[]u8":    1,
	"[]u16":   2,
	"[]u32":   4,
	"[]u64":   8,
	"[]usize": 8,
}

// ArrayElementSize reports the per-element byte width of an array keyword
// spelling, if word names one.
func ArrayElementSize(word string) (int, bool) {
	n, ok := arrayKeywords[word]
	return n, ok
}

// keywordEntry is one row of fixedKeywords, the sorted table of fixed
// (non-array, non-typename) keyword spellings, matching spec §4.1's
// "case-sensitive sorted lookup".
type keywordEntry struct {
	text string
	tag  KeywordTag
}

// typenames lists the concrete spellings the Typename keyword class
// covers (spec §4.1/§4.5): a boolean, a pointer, a width-agnostic "int"
// (used throughout spec §8's testable properties), and every fixed-width
// integer spelling. The IR builder collapses all integer spellings to the
// single coarse ir.Int kind (spec §3's Type has no width field).
var typenames = map[string]struct{}{
	"any": {}, "bool": {}, "ptr": {}, "int": {},
	"i8": {}, "i16": {}, "i32": {}, "i64": {},
	"u8": {}, "u16": {}, "u32": {}, "u64": {},
}

// IsTypename reports whether word spells one of the built-in type names
// recognized by the `Typename` keyword class.
func IsTypename(word string) bool {
	_, ok := typenames[word]
	return ok
}

var fixedKeywords = func() []keywordEntry {
	entries := []keywordEntry{
		{"end", End},
		{"if", If},
		{"else", Else},
		{"while", While},
		{"do", Do},
		{"include", Include},
		{"import", Import},
		{"return", Return},
		{"true", Bool},
		{"false", Bool},
		{"dyn", Dynamic},
		{"is", StackEffectDefinition},
		{"--", StackEffectDivider},
		{"constant", Constant},
		{"fun", Function},
		{"&fun", Function},
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].text < entries[j].text })
	return entries
}()

// LookupKeyword performs the sorted-table lookup spec §4.1 requires. It
// checks the fixed keyword table, then the array-keyword table, then the
// typename table, in that order; word matches at most one of these
// classes.
func LookupKeyword(word string) (KeywordTag, bool) {
	lo, hi := 0, len(fixedKeywords)
	for lo < hi {
		mid := (lo + hi) / 2
		if fixedKeywords[mid].text < word {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(fixedKeywords) && fixedKeywords[lo].text == word {
		return fixedKeywords[lo].tag, true
	}
	if _, ok := arrayKeywords[word]; ok {
		return Array, true
	}
	if IsTypename(word) {
		return Typename, true
	}
	return 0, false
}
