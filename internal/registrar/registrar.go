// Package registrar implements the definition registrar (spec §4.4): a
// single forward pass over the resolved token stream that allocates a
// *ir.Word for every array, constant, and function declaration it finds,
// without building function bodies. Intrinsics must already be present in
// the target *ir.WordTable before Register runs.
package registrar

import (
	"fmt"

	"stacky/internal/diag"
	"stacky/internal/ir"
	"stacky/internal/source"
	"stacky/internal/token"
)

// AnonymousPrefix names words declared with `&fun`. The IR builder looks
// up the same prefix when resolving a use site back to the anonymous
// function it names.
const AnonymousPrefix = "_stacky_anonymous_"

// Options configures Register.
type Options struct {
	WarnRedefinitions bool
	Reporter          diag.Reporter
}

// Register walks toks and populates words with one entry per array,
// constant, or function declaration. It sets the AnonID and HasAnon
// fields of each `&fun` keyword token in place so later passes can
// recover the name that definition site allocated without re-deriving it.
func Register(toks []token.Token, words *ir.WordTable, opts Options) {
	var anonCount uint64
	var nextID uint64 // monotonic definition counter; intrinsics never consume an id

	warnIfDefined := func(loc source.Location, name string) {
		if opts.WarnRedefinitions && wordExists(words, name) {
			report(opts.Reporter, diag.KindWarning, diag.DefRedefinition, loc,
				fmt.Sprintf("`%s` has already been defined", name))
		}
	}

	for i := range toks {
		tk := &toks[i]
		if tk.Kind != token.Keyword {
			continue
		}

		switch tk.KeywordTag {
		case token.Function:
			registerFunction(tk, toks, i, words, &anonCount, &nextID, opts, warnIfDefined)

		case token.Constant:
			registerConstant(tk, toks, i, words, &nextID, opts, warnIfDefined)

		case token.Array:
			registerArray(tk, toks, i, words, &nextID, opts, warnIfDefined)
		}
	}
}

func registerFunction(tk *token.Token, toks []token.Token, i int, words *ir.WordTable, anonCount, nextID *uint64, opts Options, warnIfDefined func(source.Location, string)) {
	if tk.Text == "&fun" {
		id := *anonCount
		*anonCount++
		tk.HasAnon = true
		tk.AnonID = id
		name := fmt.Sprintf("%s%d", AnonymousPrefix, id)
		words.Set(name, &ir.Word{
			ID:        allocID(nextID),
			Kind:      ir.WordFunction,
			Name:      name,
			Loc:       tk.Loc,
			Anonymous: true,
		})
		return
	}

	if i < 1 || toks[i-1].Kind != token.Word {
		report(opts.Reporter, diag.KindError, diag.DefMissingOperand, tk.Loc,
			"`fun` should be preceded by an identifier")
		return
	}
	name := toks[i-1].Text
	warnIfDefined(tk.Loc, name)
	words.Set(name, &ir.Word{
		ID:   allocID(nextID),
		Kind: ir.WordFunction,
		Name: name,
		Loc:  tk.Loc,
	})
}

func registerConstant(tk *token.Token, toks []token.Token, i int, words *ir.WordTable, nextID *uint64, opts Options, warnIfDefined func(source.Location, string)) {
	if i < 2 || toks[i-1].Kind != token.Word {
		report(opts.Reporter, diag.KindError, diag.DefMissingOperand, tk.Loc,
			"`constant` should be preceded by an identifier")
		return
	}
	if toks[i-2].Kind != token.Integer {
		report(opts.Reporter, diag.KindError, diag.DefWrongOperandKind, tk.Loc,
			"`constant` should be preceded by an integer")
		return
	}
	name := toks[i-1].Text
	warnIfDefined(toks[i-1].Loc, name)
	words.Set(name, &ir.Word{
		ID:           allocID(nextID),
		Kind:         ir.WordIntegerConst,
		Name:         name,
		Loc:          toks[i-1].Loc,
		IntegerValue: toks[i-2].IValue,
	})
}

func registerArray(tk *token.Token, toks []token.Token, i int, words *ir.WordTable, nextID *uint64, opts Options, warnIfDefined func(source.Location, string)) {
	if i < 2 || toks[i-1].Kind != token.Word {
		report(opts.Reporter, diag.KindError, diag.DefMissingOperand, tk.Loc,
			fmt.Sprintf("`%s` should be preceded by an identifier", tk.Text))
		return
	}

	count, ok := arrayElementCount(toks[i-2], words)
	if !ok {
		report(opts.Reporter, diag.KindError, diag.DefWrongOperandKind, tk.Loc,
			fmt.Sprintf("`%s` should be preceded by an integer", tk.Text))
		return
	}

	elemSize, _ := token.ArrayElementSize(tk.Text)
	name := toks[i-1].Text
	warnIfDefined(toks[i-1].Loc, name)
	words.Set(name, &ir.Word{
		ID:         allocID(nextID),
		Kind:       ir.WordArray,
		Name:       name,
		Loc:        toks[i-1].Loc,
		ArrayBytes: count * elemSize,
	})
}

func allocID(nextID *uint64) uint64 {
	id := *nextID
	*nextID++
	return id
}

// arrayElementCount resolves the element-count operand of an array
// declaration: either a literal integer, or the name of a previously
// registered Integer constant word (spec §4.4).
func arrayElementCount(operand token.Token, words *ir.WordTable) (int, bool) {
	switch operand.Kind {
	case token.Integer:
		return int(operand.IValue), true
	case token.Word:
		if w, ok := words.Get(operand.Text); ok && w.Kind == ir.WordIntegerConst {
			return int(w.IntegerValue), true
		}
	}
	return 0, false
}

func wordExists(words *ir.WordTable, name string) bool {
	_, ok := words.Get(name)
	return ok
}

func report(r diag.Reporter, kind diag.Kind, code diag.Code, loc source.Location, msg string) {
	if r != nil {
		r.Report(diag.New(kind, code, loc, msg))
	}
}
