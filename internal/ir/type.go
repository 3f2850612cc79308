// Package ir defines the intermediate representation the IR builder
// produces, the crossreferencer links, the type checker validates, and
// the optimizer transforms (spec §3). Operation, Word, and Type are
// tagged-union shapes rather than a class hierarchy (spec §9).
package ir

import "stacky/internal/source"

// TypeKind is the coarse category of a Type.
type TypeKind uint8

const (
	Int TypeKind = iota
	Bool
	Pointer
	Any
	Variable
)

func (k TypeKind) String() string {
	switch k {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Pointer:
		return "ptr"
	case Any:
		return "any"
	case Variable:
		return "var"
	default:
		return "?"
	}
}

// VarID names a type variable within one alternative of a stack effect
// (the "_1, _2, …" notation in spec §4.7).
type VarID uint32

// Type is a stack-slot type: a concrete kind, or a type variable
// identified by VarID. Loc records where the value occupying this type
// was introduced, for diagnostics that point back at it.
type Type struct {
	Kind TypeKind
	Var  VarID
	Loc  source.Location
}

func NewInt(loc source.Location) Type     { return Type{Kind: Int, Loc: loc} }
func NewBool(loc source.Location) Type    { return Type{Kind: Bool, Loc: loc} }
func NewPointer(loc source.Location) Type { return Type{Kind: Pointer, Loc: loc} }
func NewAny(loc source.Location) Type     { return Type{Kind: Any, Loc: loc} }
func NewVar(v VarID, loc source.Location) Type {
	return Type{Kind: Variable, Var: v, Loc: loc}
}

// TypeName renders t's kind, injective up to Any (spec §3 invariant):
// every concrete kind has a distinct name, and every Variable carries its
// own distinct numeric name.
func TypeName(t Type) string {
	if t.Kind == Variable {
		return "_" + itoa(uint32(t.Var))
	}
	return t.Kind.String()
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// TypeFromTypename maps a Typename keyword's spelling to its coarse Type
// (spec §4.5's "Typename keyword -> Cast to that type"). The reference's
// own Type::from only branches on 'b'/'p'/'u' and silently mishandles
// "i8".."i64"/"any"; this widens the switch to cover every spelling
// token.LookupKeyword classifies as Typename.
func TypeFromTypename(spelling string, loc source.Location) Type {
	if spelling == "" {
		return NewAny(loc)
	}
	switch spelling[0] {
	case 'b':
		return NewBool(loc)
	case 'p':
		return NewPointer(loc)
	case 'i', 'u':
		return NewInt(loc)
	default: // "any"
		return NewAny(loc)
	}
}

// WithLoc returns a copy of t at a new originating location, used when a
// generic effect's output type is substituted with a bound variable's
// concrete type but should still point at the value that produced it.
func (t Type) WithLoc(loc source.Location) Type {
	t.Loc = loc
	return t
}
