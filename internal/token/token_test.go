package token

import "testing"

func TestLookupKeywordFixedTable(t *testing.T) {
	cases := map[string]KeywordTag{
		"end": End, "if": If, "else": Else, "while": While, "do": Do,
		"include": Include, "import": Import, "return": Return,
		"true": Bool, "false": Bool, "dyn": Dynamic,
		"is": StackEffectDefinition, "--": StackEffectDivider,
		"constant": Constant, "fun": Function, "&fun": Function,
	}
	for word, want := range cases {
		got, ok := LookupKeyword(word)
		if !ok {
			t.Fatalf("expected %q to be a keyword", word)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", word, got, want)
		}
	}
}

func TestLookupKeywordArrayTable(t *testing.T) {
	for _, word := range []string{"[]byte", "[]u8", "[]u16", "[]u32", "[]u64", "[]usize"} {
		tag, ok := LookupKeyword(word)
		if !ok || tag != Array {
			t.Fatalf("LookupKeyword(%q) = %v, %v, want Array, true", word, tag, ok)
		}
		if _, ok := ArrayElementSize(word); !ok {
			t.Fatalf("expected %q to have a known element size", word)
		}
	}
}

func TestLookupKeywordTypenameTable(t *testing.T) {
	for _, word := range []string{"any", "bool", "ptr", "int", "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64"} {
		tag, ok := LookupKeyword(word)
		if !ok || tag != Typename {
			t.Fatalf("LookupKeyword(%q) = %v, %v, want Typename, true", word, tag, ok)
		}
		if !IsTypename(word) {
			t.Fatalf("expected IsTypename(%q) to be true", word)
		}
	}
}

func TestLookupKeywordRejectsOrdinaryWords(t *testing.T) {
	for _, word := range []string{"dup", "swap", "foo", "square"} {
		if _, ok := LookupKeyword(word); ok {
			t.Fatalf("did not expect %q to be a keyword", word)
		}
	}
}

func TestArrayElementSizeByWidth(t *testing.T) {
	cases := map[string]int{
		"[]byte": 1, "[]u8": 1, "[]u16": 2, "[]u32": 4, "[]u64": 8, "[]usize": 8,
	}
	for word, want := range cases {
		got, ok := ArrayElementSize(word)
		if !ok || got != want {
			t.Fatalf("ArrayElementSize(%q) = %d, %v, want %d, true", word, got, ok, want)
		}
	}
}

func TestKeywordTagStringRoundTrip(t *testing.T) {
	for want, tag := range map[string]KeywordTag{
		"end": End, "if": If, "fun": Function, "is": StackEffectDefinition,
	} {
		if got := tag.String(); got != want {
			t.Fatalf("KeywordTag(%v).String() = %q, want %q", tag, got, want)
		}
	}
}

func TestTokenIsKeyword(t *testing.T) {
	tk := Token{Kind: Keyword, KeywordTag: If}
	if !tk.IsKeyword(If) {
		t.Fatalf("expected IsKeyword(If) to be true")
	}
	if tk.IsKeyword(Else) {
		t.Fatalf("expected IsKeyword(Else) to be false")
	}
	other := Token{Kind: Word, KeywordTag: If}
	if other.IsKeyword(If) {
		t.Fatalf("expected a non-Keyword token to never satisfy IsKeyword")
	}
}
