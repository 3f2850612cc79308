package source

import "testing"

func TestFileOffsetLineAndColumn(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddContent("test.stacky", []byte("abc\ndef\nghi"))
	f := fs.Get(id)

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}},
		{4, LineCol{Line: 2, Col: 1}},
		{7, LineCol{Line: 2, Col: 4}},
		{8, LineCol{Line: 3, Col: 1}},
	}
	for _, tc := range cases {
		got := f.Offset(tc.off)
		if got != tc.want {
			t.Fatalf("Offset(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestAddContentStripsUTF8BOM(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddContent("bom.stacky", append([]byte{0xEF, 0xBB, 0xBF}, []byte("1 2 +")...))
	f := fs.Get(id)
	if string(f.Content) != "1 2 +" {
		t.Fatalf("expected the BOM to be stripped, got %q", f.Content)
	}
}

func TestFileSetLookupAndReload(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddContent("a.stacky", []byte("x"))

	got, ok := fs.Lookup("a.stacky")
	if !ok || got != id {
		t.Fatalf("Lookup(a.stacky) = %v, %v, want %v, true", got, ok, id)
	}

	if _, ok := fs.Lookup("missing.stacky"); ok {
		t.Fatalf("expected Lookup to fail for an unregistered path")
	}
}

func TestFileSetGetOutOfRangeReturnsNil(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(NoFileID) != nil {
		t.Fatalf("expected Get(NoFileID) to return nil")
	}
	if fs.Get(FileID(99)) != nil {
		t.Fatalf("expected Get of an unknown id to return nil")
	}
}

func TestLocationIsValidAndString(t *testing.T) {
	var zero Location
	if zero.IsValid() {
		t.Fatalf("expected a zero-value Location to be invalid")
	}
	if zero.String() != "<unknown>" {
		t.Fatalf("expected zero-value Location to render <unknown>, got %q", zero.String())
	}

	loc := Location{File: "main.stacky", Line: 3, Column: 5}
	if !loc.IsValid() {
		t.Fatalf("expected a Location with a file to be valid")
	}
	if got, want := loc.String(), "main.stacky:3:5"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestLocationWithFunction(t *testing.T) {
	loc := Location{File: "main.stacky", Line: 1, Column: 1}
	annotated := loc.WithFunction("square")
	if annotated.Function != "square" {
		t.Fatalf("expected WithFunction to set Function, got %+v", annotated)
	}
	if loc.Function != "" {
		t.Fatalf("expected WithFunction to not mutate the receiver")
	}
}

func TestLocationAt(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddContent("test.stacky", []byte("ab\ncd"))
	f := fs.Get(id)

	loc := LocationAt(f, 4)
	if loc.File != "test.stacky" || loc.Line != 2 || loc.Column != 2 {
		t.Fatalf("LocationAt(4) = %+v, want file=test.stacky line=2 col=2", loc)
	}
}
