package lexer

import (
	"stacky/internal/diag"
	"stacky/internal/source"
	"stacky/internal/token"
)

// InternStrings implements the String Interner component (spec §4.3): for
// every String token in toks, it decodes the payload and records the
// token's StringID in in, then clears RawPayload since it is no longer
// needed once interned.
func InternStrings(toks []token.Token, in *source.Interner, r diag.Reporter) {
	for i := range toks {
		if toks[i].Kind != token.String {
			continue
		}
		payload, err := StringPayload(toks[i])
		if err != nil {
			if r != nil {
				r.Report(diag.New(diag.KindError, diag.LexInvalidEscape, toks[i].Loc,
					"invalid string escape: "+err.Error()))
			}
			payload = nil
		}
		toks[i].StringID = in.Intern(payload)
		toks[i].RawPayload = nil
	}
}
