package ir

import "stacky/internal/source"

// WordKind is the tag of a named entity.
type WordKind uint8

const (
	WordIntrinsic WordKind = iota
	WordIntegerConst
	WordArray
	WordFunction
)

// Word is a named entity: an intrinsic, an integer constant, a byte
// array, or a function (spec §3). Id is unique and stable for the
// lifetime of the Program.
type Word struct {
	ID   uint64
	Kind WordKind
	Name string
	Loc  source.Location

	Intrinsic Intrinsic // WordIntrinsic

	IntegerValue int64 // WordIntegerConst

	ArrayBytes int // WordArray: total byte size (count * element width)

	// WordFunction fields.
	Body      []Operation
	Dynamic   bool // marked `dyn`; disallows a declared Effect
	Effect    *StackEffect
	Anonymous bool // declared via `&fun`
}
