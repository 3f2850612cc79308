package lexer

import (
	"fmt"
	"strconv"
	"testing"

	"stacky/internal/diag"
	"stacky/internal/source"
	"stacky/internal/token"
)

func lexOne(t *testing.T, src string) (token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddContent("test.stacky", []byte(src))
	f := fs.Get(id)
	bag := diag.NewBag(0)
	toks := All(f, Options{Reporter: diag.BagReporter{Bag: bag}})
	if len(toks) == 0 {
		t.Fatalf("expected at least an EOF token")
	}
	return toks[0], bag
}

func TestIntegerRoundTripAcrossBases(t *testing.T) {
	prefixes := map[int]string{2: "0b", 6: "0s", 8: "0o", 10: "", 16: "0x"}
	values := []uint64{0, 1, 7, 63, 255, 4096, 1_000_000, 1<<63 - 1}

	for base, prefix := range prefixes {
		for _, v := range values {
			digits := strconv.FormatUint(v, base)
			text := prefix + digits
			tok, bag := lexOne(t, text)
			if bag.HasErrors() {
				t.Fatalf("base %d value %d (%q): unexpected diagnostics: %v", base, v, text, bag.Items())
			}
			if tok.Kind != token.Integer {
				t.Fatalf("base %d value %d (%q): expected Integer, got %v", base, v, text, tok.Kind)
			}
			if uint64(tok.IValue) != v {
				t.Fatalf("base %d value %d (%q): got ival %d", base, v, text, tok.IValue)
			}
		}
	}
}

func TestIntegerRoundTripWithUnderscores(t *testing.T) {
	cases := []struct {
		text string
		want uint64
	}{
		{"1_000_000", 1000000},
		{"0xFF_FF", 0xFFFF},
		{"0b1010_1010", 0xAA},
	}
	for _, tc := range cases {
		tok, bag := lexOne(t, tc.text)
		if bag.HasErrors() {
			t.Fatalf("%q: unexpected diagnostics: %v", tc.text, bag.Items())
		}
		if tok.Kind != token.Integer || uint64(tok.IValue) != tc.want {
			t.Fatalf("%q: got %+v, want value %d", tc.text, tok, tc.want)
		}
	}
}

func TestIntegerSizeSuffix(t *testing.T) {
	tok, bag := lexOne(t, "42u16")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if tok.Kind != token.Integer || tok.IValue != 42 {
		t.Fatalf("got %+v", tok)
	}
	if tok.Size != token.Size16 || tok.IsSigned {
		t.Fatalf("expected unsigned 16-bit suffix, got size=%v signed=%v", tok.Size, tok.IsSigned)
	}
}

func TestOutOfRangeDigitFallsBackToWord(t *testing.T) {
	tok, bag := lexOne(t, "0b102")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if tok.Kind != token.Word {
		t.Fatalf("expected out-of-base digit to fall back to Word, got %v", tok.Kind)
	}
}

func TestStringInterningIdempotence(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddContent("test.stacky", []byte(`"hello" "hel\x6co"`))
	f := fs.Get(id)
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}

	toks := All(f, Options{Reporter: rep})
	in := source.NewInterner()
	InternStrings(toks, in, rep)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	var strs []token.Token
	for _, tk := range toks {
		if tk.Kind == token.String {
			strs = append(strs, tk)
		}
	}
	if len(strs) != 2 {
		t.Fatalf("expected 2 string tokens, got %d", len(strs))
	}
	if strs[0].StringID != strs[1].StringID {
		t.Fatalf("expected identical payloads to share a StringID, got %d and %d", strs[0].StringID, strs[1].StringID)
	}
	if in.Len() != 2 {
		t.Fatalf("expected the interned table to hold the empty placeholder plus one entry, got %d", in.Len())
	}
	payload, ok := in.Lookup(strs[0].StringID)
	if !ok || string(payload) != "hello" {
		t.Fatalf("expected interned payload %q, got %q (ok=%v)", "hello", payload, ok)
	}
}

func TestUnterminatedStringReportsFatal(t *testing.T) {
	_, bag := lexOne(t, `"never closes`)
	if !bag.HasErrors() {
		t.Fatalf("expected an unterminated string to report an error")
	}
}

func TestEmptyCharLiteralReportsFatal(t *testing.T) {
	_, bag := lexOne(t, `''`)
	if !bag.HasErrors() {
		t.Fatalf("expected an empty character literal to report an error")
	}
}

func TestCharLiteralPacksBytes(t *testing.T) {
	tok, bag := lexOne(t, `'ab'`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if tok.Kind != token.Char {
		t.Fatalf("expected Char token, got %v", tok.Kind)
	}
	if tok.IValue == 0 {
		t.Fatalf("expected a nonzero packed value for a two-byte char literal")
	}
}

func TestSkipsCommentsAndWhitespace(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddContent("test.stacky", []byte("# a comment\n  1  # trailing\n2"))
	f := fs.Get(id)
	toks := All(f, Options{})

	var ints []int64
	for _, tk := range toks {
		if tk.Kind == token.Integer {
			ints = append(ints, tk.IValue)
		}
	}
	if fmt.Sprint(ints) != "[1 2]" {
		t.Fatalf("expected [1 2], got %v", ints)
	}
}

func TestAddressOfWord(t *testing.T) {
	tok, bag := lexOne(t, "&main")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if tok.Kind != token.AddressOf || tok.Text != "&main" {
		t.Fatalf("expected AddressOf(&main), got %+v", tok)
	}
}

func TestAnonymousFunKeyword(t *testing.T) {
	tok, bag := lexOne(t, "&fun")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if tok.Kind != token.Keyword || tok.KeywordTag != token.Function {
		t.Fatalf("expected &fun to lex as the Function keyword, got %+v", tok)
	}
}
