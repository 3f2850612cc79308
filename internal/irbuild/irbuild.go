// Package irbuild turns a registrar-annotated token stream into main's
// operation list and each Function word's body (spec §4.5). It drives a
// backward scan mirroring the reference compiler's function_into_operations
// / into_operations pair: on `end` it walks back to the matching opener,
// and if that opener is `fun`/`&fun` it recurses into the function's own
// span before resuming the enclosing scan.
package irbuild

import (
	"fmt"

	"stacky/internal/diag"
	"stacky/internal/ir"
	"stacky/internal/registrar"
	"stacky/internal/source"
	"stacky/internal/token"
)

// Options configures Build.
type Options struct {
	Reporter diag.Reporter
}

// Build walks toks and returns main's operation list. As a side effect it
// fills in Body, Effect, and Dynamic on every Function word it reaches.
func Build(toks []token.Token, words *ir.WordTable, opts Options) []ir.Operation {
	b := &builder{words: words, opts: opts}
	return b.scanSpan(toks, "", false).ops
}

type builder struct {
	words *ir.WordTable
	opts  Options
}

type spanResult struct {
	ops     []ir.Operation
	effect  *ir.StackEffect
	dynamic bool
}

// scanSpan runs the backward scan over one token span: main's full token
// list, or the interior of one function body. inFunctionBody disallows
// Array/Constant declarations and enables `dyn`/stack-effect parsing.
func (b *builder) scanSpan(span []token.Token, functionName string, inFunctionBody bool) spanResult {
	var res spanResult

	for i := len(span) - 1; i >= 0; i-- {
		tk := span[i]

		if tk.Kind == token.EOF {
			continue
		}
		if tk.Kind != token.Keyword {
			res.ops = append(res.ops, b.translate(tk))
			continue
		}

		switch tk.KeywordTag {
		case token.Array, token.Constant:
			if inFunctionBody {
				b.report(diag.ParseDefInFunctionBody, tk.Loc,
					"definitions of arrays or constants are not allowed inside function bodies")
				continue
			}
			// The registrar already consumed the preceding "N name"
			// operand tokens; skip them here too so they don't get
			// mistranslated as ordinary literal/word operations.
			i -= 2
			continue

		case token.Dynamic:
			if !inFunctionBody {
				continue
			}
			res.dynamic = true
			continue

		case token.StackEffectDefinition:
			if !inFunctionBody {
				b.report(diag.ParseInvalidEffect, tk.Loc, "stack effect declaration outside a function body")
				continue
			}
			effect, consumed := b.parseStackEffect(span, i)
			res.effect = effect
			i -= consumed
			continue

		case token.End:
			openerIdx, ok := findOpener(span, i)
			if !ok {
				b.report(diag.ParseUnbalancedEnd, tk.Loc, "unexpected `end`")
				continue
			}
			opener := span[openerIdx]

			if opener.KeywordTag != token.Function {
				res.ops = append(res.ops, ir.NewOp(ir.OpEnd, tk.Loc))
				continue
			}

			if opener.Text == "&fun" {
				name := anonymousName(opener)
				w, ok := b.words.Get(name)
				if !ok {
					b.report(diag.InternalAssertion, opener.Loc, "anonymous function was not registered: "+name)
					i = openerIdx
					continue
				}
				interior := span[openerIdx+1 : i]
				sub := b.scanSpan(interior, w.Name, true)
				b.installBody(w, sub)
				res.ops = append(res.ops, pushFunctionSymbol(w, opener.Loc))
				i = openerIdx
				continue
			}

			if openerIdx < 1 || span[openerIdx-1].Kind != token.Word {
				b.report(diag.InternalAssertion, opener.Loc, "function opener missing its registered name")
				i = openerIdx
				continue
			}
			name := span[openerIdx-1].Text
			w, ok := b.words.Get(name)
			if !ok {
				b.report(diag.InternalAssertion, opener.Loc, "function was not registered: "+name)
				i = openerIdx - 1
				continue
			}
			if inFunctionBody {
				b.report(diag.ParseNestedFunction, opener.Loc,
					fmt.Sprintf("`%s` is defined inside another function's body", name))
			}
			interior := span[openerIdx+1 : i]
			sub := b.scanSpan(interior, w.Name, true)
			b.installBody(w, sub)
			i = openerIdx - 1
			continue

		default:
			res.ops = append(res.ops, b.translate(tk))
		}
	}

	reverseOps(res.ops)
	for idx := range res.ops {
		res.ops[idx].Loc = res.ops[idx].Loc.WithFunction(functionName)
	}
	return res
}

func (b *builder) installBody(w *ir.Word, sub spanResult) {
	w.Body = sub.ops
	w.Effect = sub.effect
	w.Dynamic = sub.dynamic
	if w.Dynamic && w.Effect != nil {
		b.report(diag.ParseDynWithEffect, w.Loc,
			fmt.Sprintf("`%s` cannot be both `dyn` and have a declared stack effect", w.Name))
	}
}

func anonymousName(opener token.Token) string {
	return fmt.Sprintf("%s%d", registrar.AnonymousPrefix, opener.AnonID)
}

func pushFunctionSymbol(w *ir.Word, loc source.Location) ir.Operation {
	op := ir.NewOp(ir.OpPushSymbol, loc)
	op.SymbolPrefix = ir.SymbolFunction
	op.Symbol = w.Name
	op.WordID = w.ID
	op.HasWordID = true
	return op
}

// findOpener scans span backward from endIdx-1, treating `end` as +1 and
// `fun`/`if`/`while` as -1, to find the opener matching the `end` at
// endIdx (spec §4.5's "counting If/While/Function as openers").
func findOpener(span []token.Token, endIdx int) (int, bool) {
	depth := 1
	for j := endIdx - 1; j >= 0; j-- {
		if span[j].Kind != token.Keyword {
			continue
		}
		switch span[j].KeywordTag {
		case token.End:
			depth++
		case token.Function, token.If, token.While:
			depth--
		}
		if depth == 0 {
			return j, true
		}
	}
	return 0, false
}

// parseStackEffect consumes span[0:isIdx] as a `T1 ... Tn -- U1 ... Um`
// declaration (spec §4.5). The reference always requires the declaration
// to reach back to the start of the function's span; this mirrors that
// by returning how many tokens (including "is" itself) were consumed.
func (b *builder) parseStackEffect(span []token.Token, isIdx int) (*ir.StackEffect, int) {
	var input, output []ir.Type
	dividerSeen := false

	for j := isIdx - 1; j >= 0; j-- {
		tk := span[j]
		if tk.Kind != token.Keyword {
			b.report(diag.ParseInvalidEffect, tk.Loc, "stack effect declarations may only contain type names")
			continue
		}
		switch tk.KeywordTag {
		case token.StackEffectDivider:
			if dividerSeen {
				b.report(diag.ParseInvalidEffect, tk.Loc, "a stack effect declaration may only have one `--`")
				continue
			}
			dividerSeen = true
		case token.Typename:
			// Scanning backward, types before the divider is reached are
			// the outputs and those after it are the inputs.
			t := ir.TypeFromTypename(tk.Text, tk.Loc)
			if dividerSeen {
				input = append(input, t)
			} else {
				output = append(output, t)
			}
		case token.Dynamic:
			b.report(diag.ParseDynWithEffect, tk.Loc, "`dyn` cannot appear inside a stack effect declaration")
		default:
			b.report(diag.ParseInvalidEffect, tk.Loc, "stack effect declarations may only contain type names")
		}
	}

	reverseTypes(input)
	reverseTypes(output)
	return &ir.StackEffect{Input: input, Output: output}, isIdx
}

// translate converts one non-structural token into its Operation, per
// spec §4.5's literal translation table.
func (b *builder) translate(tk token.Token) ir.Operation {
	switch tk.Kind {
	case token.Integer:
		op := ir.NewOp(ir.OpPushInt, tk.Loc)
		op.IntValue = tk.IValue
		op.Type = ir.NewInt(tk.Loc)
		return op

	case token.Char:
		op := ir.NewOp(ir.OpPushInt, tk.Loc)
		op.IntValue = tk.IValue
		op.Type = ir.NewInt(tk.Loc)
		return op

	case token.String:
		op := ir.NewOp(ir.OpPushSymbol, tk.Loc)
		op.SymbolPrefix = ir.SymbolString
		op.StringID = uint32(tk.StringID)
		return op

	case token.AddressOf:
		name := tk.Text[1:]
		w, ok := b.words.Get(name)
		if !ok || w.Kind != ir.WordFunction {
			b.report(diag.ParseUndefinedSymbol, tk.Loc, fmt.Sprintf("`%s` is not a defined function", name))
			return ir.NewOp(ir.OpPushInt, tk.Loc)
		}
		return pushFunctionSymbol(w, tk.Loc)

	case token.Word:
		w, ok := b.words.Get(tk.Text)
		if !ok {
			b.report(diag.ParseUndefinedWord, tk.Loc, fmt.Sprintf("word `%s` has not been defined yet", tk.Text))
			return ir.NewOp(ir.OpPushInt, tk.Loc)
		}
		switch w.Kind {
		case ir.WordIntrinsic:
			op := ir.NewOp(ir.OpIntrinsic, tk.Loc)
			op.Intrinsic = w.Intrinsic
			return op
		case ir.WordIntegerConst:
			op := ir.NewOp(ir.OpPushInt, tk.Loc)
			op.IntValue = w.IntegerValue
			op.Type = ir.NewInt(tk.Loc)
			return op
		case ir.WordArray:
			op := ir.NewOp(ir.OpPushSymbol, tk.Loc)
			op.SymbolPrefix = ir.SymbolArray
			op.Symbol = w.Name
			op.WordID = w.ID
			op.HasWordID = true
			return op
		default: // ir.WordFunction
			op := ir.NewOp(ir.OpCallSymbol, tk.Loc)
			op.Symbol = w.Name
			op.WordID = w.ID
			op.HasWordID = true
			return op
		}

	case token.Keyword:
		switch tk.KeywordTag {
		case token.Bool:
			op := ir.NewOp(ir.OpPushInt, tk.Loc)
			op.IntValue = tk.IValue
			op.Type = ir.NewBool(tk.Loc)
			return op
		case token.Typename:
			op := ir.NewOp(ir.OpCast, tk.Loc)
			op.Type = ir.TypeFromTypename(tk.Text, tk.Loc)
			return op
		case token.If:
			return ir.NewOp(ir.OpIf, tk.Loc)
		case token.Else:
			return ir.NewOp(ir.OpElse, tk.Loc)
		case token.While:
			return ir.NewOp(ir.OpWhile, tk.Loc)
		case token.Do:
			return ir.NewOp(ir.OpDo, tk.Loc)
		case token.Return:
			return ir.NewOp(ir.OpReturn, tk.Loc)
		}
	}

	b.report(diag.InternalAssertion, tk.Loc, "translate_operation received an unhandled token")
	return ir.NewOp(ir.OpPushInt, tk.Loc)
}

func (b *builder) report(code diag.Code, loc source.Location, msg string) {
	if b.opts.Reporter != nil {
		b.opts.Reporter.Report(diag.New(diag.KindError, code, loc, msg))
	}
}

func reverseOps(ops []ir.Operation) {
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
}

func reverseTypes(types []ir.Type) {
	for i, j := 0, len(types)-1; i < j; i, j = i+1, j-1 {
		types[i], types[j] = types[j], types[i]
	}
}
