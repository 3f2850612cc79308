package lexer

import "stacky/internal/token"

// digitValue returns b's value as a digit and whether it is a legal digit
// character at all (0-9a-zA-Z); base-range checking happens separately so
// that "out of range for base" and "not a digit character" both fall back
// to Word per spec §4.1.
func digitValue(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

type parsedInt struct {
	value    uint64
	size     token.ByteSize
	isSigned bool
}

// suffixes lists the byte-size suffixes in longest-match-first order so
// "u64" isn't mistaken for a bad tail of "u6" + "4".
var suffixes = []struct {
	text     string
	size     token.ByteSize
	isSigned bool
}{
	{"i64", token.Size64, true}, {"u64", token.Size64, false},
	{"i32", token.Size32, true}, {"u32", token.Size32, false},
	{"i16", token.Size16, true}, {"u16", token.Size16, false},
	{"i8", token.Size8, true}, {"u8", token.Size8, false},
}

func stripSizeSuffix(word string) (body string, size token.ByteSize, isSigned bool) {
	for _, s := range suffixes {
		if len(word) > len(s.text) && word[len(word)-len(s.text):] == s.text {
			return word[:len(word)-len(s.text)], s.size, s.isSigned
		}
	}
	return word, token.SizeNone, false
}

// parseInteger implements spec §4.1's integer grammar: an optional
// 0b/0s/0o/0x base prefix (bases 2, 6, 8, 16; no prefix means base 10),
// underscore-separated digits, and an optional byte-size suffix. Any
// digit whose value is >= the base fails the parse; the caller then
// treats the whole span as a Word.
func parseInteger(word string) (parsedInt, bool) {
	body, size, isSigned := stripSizeSuffix(word)
	if body == "" {
		return parsedInt{}, false
	}

	base := 10
	digits := body
	if len(body) >= 2 && body[0] == '0' {
		switch body[1] {
		case 'b':
			base, digits = 2, body[2:]
		case 's':
			base, digits = 6, body[2:]
		case 'o':
			base, digits = 8, body[2:]
		case 'x':
			base, digits = 16, body[2:]
		}
	}
	if digits == "" {
		return parsedInt{}, false
	}

	var value uint64
	sawDigit := false
	for i := 0; i < len(digits); i++ {
		b := digits[i]
		if b == '_' {
			continue
		}
		d, ok := digitValue(b)
		if !ok || d >= base {
			return parsedInt{}, false
		}
		value = value*uint64(base) + uint64(d)
		sawDigit = true
	}
	if !sawDigit {
		return parsedInt{}, false
	}
	return parsedInt{value: value, size: size, isSigned: isSigned}, true
}
