// Package dumpfmt serializes a Program's stack effects and jump-target
// index to a compact machine-readable form for `--dump-effects`,
// grounded on vovakirdan-surge/internal/driver/dcache.go's msgpack
// encode/decode pair (schema-versioned payload struct, streaming
// Encoder/Decoder rather than a one-shot Marshal/Unmarshal).
package dumpfmt

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"stacky/internal/ir"
)

// schemaVersion guards against decoding a payload written by an
// incompatible future revision of this format, the same role
// dcache.go's diskCacheSchemaVersion plays for its own payload.
const schemaVersion uint16 = 1

// EffectDump is a StackEffect flattened to type names, msgpack's wire
// format has no notion of ir.Type's internal representation.
type EffectDump struct {
	Input  []string
	Output []string
}

// WordDump is one entry of the word table: its stable id, kind, name,
// and (for a Function word with a known effect) its signature.
type WordDump struct {
	ID      uint64
	Kind    string
	Name    string
	Effects []EffectDump
}

// JumpDump is one entry of the jump-target index (spec §4.9).
type JumpDump struct {
	Function string
	Index    int
}

// Payload is the top-level document written to a `--dump-effects` file.
type Payload struct {
	Schema      uint16
	Words       []WordDump
	JumpTargets []JumpDump
}

// Build snapshots prog into a Payload, iterating words in the table's
// stable order and jump targets in a sorted order so two runs over the
// same program produce byte-identical output.
func Build(prog *ir.Program) *Payload {
	p := &Payload{Schema: schemaVersion}

	for _, name := range prog.Words.Names() {
		w, ok := prog.Words.Get(name)
		if !ok {
			continue
		}
		p.Words = append(p.Words, wordDump(w))
	}

	keys := make([]ir.JumpKey, 0, len(prog.JumpTargets))
	for k := range prog.JumpTargets {
		keys = append(keys, k)
	}
	sortJumpKeys(keys)
	for _, k := range keys {
		p.JumpTargets = append(p.JumpTargets, JumpDump{Function: k.Function, Index: k.Index})
	}

	return p
}

func wordDump(w *ir.Word) WordDump {
	d := WordDump{ID: w.ID, Name: w.Name, Kind: wordKindName(w.Kind)}
	if w.Kind == ir.WordFunction && w.Effect != nil {
		d.Effects = []EffectDump{effectDump(*w.Effect)}
	}
	return d
}

func effectDump(e ir.StackEffect) EffectDump {
	d := EffectDump{Input: make([]string, len(e.Input)), Output: make([]string, len(e.Output))}
	for i, t := range e.Input {
		d.Input[i] = ir.TypeName(t)
	}
	for i, t := range e.Output {
		d.Output[i] = ir.TypeName(t)
	}
	return d
}

func wordKindName(k ir.WordKind) string {
	switch k {
	case ir.WordIntrinsic:
		return "intrinsic"
	case ir.WordIntegerConst:
		return "const"
	case ir.WordArray:
		return "array"
	case ir.WordFunction:
		return "function"
	default:
		return "?word"
	}
}

// sortJumpKeys orders by function name then index, insertion sort is
// plenty for the handful of control-flow sites a typical program has
// and avoids pulling in sort just for a two-field comparator on top of
// what's already imported.
func sortJumpKeys(keys []ir.JumpKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && jumpKeyLess(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

func jumpKeyLess(a, b ir.JumpKey) bool {
	if a.Function != b.Function {
		return a.Function < b.Function
	}
	return a.Index < b.Index
}

// Encode writes payload to w in msgpack form.
func Encode(w io.Writer, payload *Payload) error {
	return msgpack.NewEncoder(w).Encode(payload)
}

// Decode reads a Payload from r, rejecting a schema it doesn't recognize.
func Decode(r io.Reader) (*Payload, error) {
	var payload Payload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Schema != schemaVersion {
		return nil, fmt.Errorf("dumpfmt: unsupported schema version %d (want %d)", payload.Schema, schemaVersion)
	}
	return &payload, nil
}
