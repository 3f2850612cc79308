package diag

// Code is a stable numeric diagnostic identifier, grouped by the phase
// that raises it, mirroring the teacher's LexXxx/SynXxx code ranges.
type Code uint16

const (
	Unknown Code = 0

	// Lexer, 1000-1999.
	LexUnterminatedString Code = 1001
	LexUnterminatedChar   Code = 1002
	LexEmptyChar          Code = 1003
	LexCharTooLong        Code = 1004
	LexInvalidEscape      Code = 1005

	// Include/import resolver, 2000-2999.
	ResolveNotFound     Code = 2001
	ResolveNotAFile     Code = 2002
	ResolveMissingPath  Code = 2003

	// Definition registrar, 3000-3999.
	DefMissingOperand    Code = 3001
	DefWrongOperandKind  Code = 3002
	DefNestedFunction    Code = 3003
	DefRedefinition      Code = 3004

	// IR builder / crossreferencer (parse), 4000-4999.
	ParseUnbalancedEnd    Code = 4001
	ParseUnbalancedElse   Code = 4002
	ParseDoWithoutWhile   Code = 4003
	ParseUndefinedWord    Code = 4004
	ParseDefInFunctionBody Code = 4005
	ParseDynWithEffect    Code = 4006
	ParseInvalidEffect    Code = 4007
	ParseNestedFunction   Code = 4008
	ParseUndefinedSymbol  Code = 4009

	// Type checker, 5000-5999.
	TypeMissingOperand   Code = 5001
	TypeMismatch         Code = 5002
	TypeBranchMismatch   Code = 5003
	TypeLoopMismatch     Code = 5004
	TypeExitMismatch     Code = 5005
	TypeUnsupportedCall  Code = 5006
	TypeMissingEffect    Code = 5007

	// Optimizer, 6000-6999 (non-fatal).
	OptDeadCode        Code = 6001
	OptBranchFolded    Code = 6002
	OptUnreachablePrune Code = 6003

	// Internal, 9000-9999.
	InternalAssertion Code = 9001
)
