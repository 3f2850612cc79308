// Package lexer turns a source.File's byte content into a token.Token
// stream (spec §4.1). It never aborts on malformed input except for an
// unterminated string/char literal or an empty character literal, in
// which case it reports a fatal diag.KindError and emits a best-effort
// token so scanning can continue.
package lexer

import (
	"stacky/internal/diag"
	"stacky/internal/source"
	"stacky/internal/token"
)

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter
}

// Lexer produces tokens on demand from one file.
type Lexer struct {
	file   *source.File
	cursor cursor
	opts   Options
}

// New creates a Lexer over f.
func New(f *source.File, opts Options) *Lexer {
	return &Lexer{file: f, cursor: newCursor(f), opts: opts}
}

func (lx *Lexer) report(code diag.Code, loc source.Location, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.New(diag.KindError, code, loc, msg))
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }

func (lx *Lexer) skipTrivia() {
	for {
		for isSpace(lx.cursor.peek()) {
			lx.cursor.bump()
		}
		if lx.cursor.peek() == '#' {
			for !lx.cursor.eof() && lx.cursor.peek() != '\n' {
				lx.cursor.bump()
			}
			continue
		}
		return
	}
}

// Next returns the next token in the stream, ending with a Kind == EOF
// token that repeats forever once reached.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()
	start := lx.cursor.off
	loc := lx.cursor.locAt(start)

	if lx.cursor.eof() {
		return token.Token{Kind: token.EOF, Loc: loc}
	}

	switch lx.cursor.peek() {
	case '"':
		return lx.scanString(loc)
	case '\'':
		return lx.scanChar(loc)
	}

	return lx.scanWord(loc)
}

// scanWord reads a maximal run of non-whitespace bytes and classifies it
// as AddressOf, Keyword, Integer, or Word.
func (lx *Lexer) scanWord(loc source.Location) token.Token {
	start := lx.cursor.off
	for !lx.cursor.eof() && !isSpace(lx.cursor.peek()) {
		lx.cursor.bump()
	}
	text := string(lx.file.Content[start:lx.cursor.off])

	// "&fun" is a keyword spelling in its own right (spec §4.4's anonymous
	// function form), so the keyword table is consulted before the
	// general address-of rule below claims every leading '&'.
	if tag, ok := token.LookupKeyword(text); ok {
		tk := token.Token{Kind: token.Keyword, Loc: loc, Text: text, KeywordTag: tag}
		if tag == token.Bool {
			if text == "true" {
				tk.IValue = 1
			}
		}
		return tk
	}

	if len(text) > 1 && text[0] == '&' {
		return token.Token{Kind: token.AddressOf, Loc: loc, Text: text}
	}

	if isDigitStart(text) {
		if v, ok := parseInteger(text); ok {
			return token.Token{
				Kind: token.Integer, Loc: loc, Text: text,
				IValue: int64(v.value), Size: v.size, IsSigned: v.isSigned,
			}
		}
	}

	return token.Token{Kind: token.Word, Loc: loc, Text: text}
}

func isDigitStart(text string) bool {
	return len(text) > 0 && text[0] >= '0' && text[0] <= '9'
}

func (lx *Lexer) scanString(loc source.Location) token.Token {
	start := lx.cursor.off
	lx.cursor.bump() // opening quote
	raw, terminated := scanLiteralRaw(&lx.cursor, '"')
	text := string(lx.file.Content[start:lx.cursor.off])
	if !terminated {
		lx.report(diag.LexUnterminatedString, loc, "unterminated string literal")
	}
	return token.Token{Kind: token.String, Loc: loc, Text: text, RawPayload: raw}
}

func (lx *Lexer) scanChar(loc source.Location) token.Token {
	start := lx.cursor.off
	lx.cursor.bump() // opening quote
	raw, terminated := scanLiteralRaw(&lx.cursor, '\'')
	text := string(lx.file.Content[start:lx.cursor.off])
	if !terminated {
		lx.report(diag.LexUnterminatedChar, loc, "unterminated character literal")
		return token.Token{Kind: token.Char, Loc: loc, Text: text}
	}
	if len(raw) == 0 {
		lx.report(diag.LexEmptyChar, loc, "empty character literal")
		return token.Token{Kind: token.Char, Loc: loc, Text: text}
	}
	packer := &intPacker{}
	if err := decodeEscapes(raw, packer); err != nil {
		if err == errCharTooLong {
			lx.report(diag.LexCharTooLong, loc, "character literal longer than 8 bytes")
		} else {
			lx.report(diag.LexInvalidEscape, loc, "invalid escape sequence: "+err.Error())
		}
		return token.Token{Kind: token.Char, Loc: loc, Text: text}
	}
	return token.Token{Kind: token.Char, Loc: loc, Text: text, IValue: packer.value}
}

// StringPayload decodes the raw content captured by scanString, using the
// same escape rules as character literals (spec §4.3). The string
// interner calls this once per literal.
func StringPayload(t token.Token) ([]byte, error) {
	acc := &byteAccumulator{}
	if err := decodeEscapes(t.RawPayload, acc); err != nil {
		return nil, err
	}
	return acc.buf, nil
}

// All lexes the entire file, returning every token including the final
// EOF sentinel exactly once.
func All(f *source.File, opts Options) []token.Token {
	lx := New(f, opts)
	var out []token.Token
	for {
		tk := lx.Next()
		out = append(out, tk)
		if tk.Kind == token.EOF {
			return out
		}
	}
}
