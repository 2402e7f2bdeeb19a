package config

// Program syntax markers shared by the lexer, the printer and the parser.
const (
	LambdaKeyword  = "lambda"
	IndexPrefix    = "$"
	InventedPrefix = "#"

	// HoleMarker denotes an ordinary value-typed hole.
	HoleMarker = "<HOLE>"

	// ContinuationHoleMarker denotes a hole whose filling is a continuation
	// in domains with stateful primitives. It behaves exactly like HoleMarker
	// for typing and search; only an external evaluator distinguishes them.
	ContinuationHoleMarker = "<CONT_HOLE>"
)

// Built-in type constructor names.
const (
	ArrowTypeName = "->"
	IntTypeName   = "int"
	BoolTypeName  = "bool"
	ListTypeName  = "list"
)
