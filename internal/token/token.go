package token

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	COMMA  TokenType = ","
	ARROW  TokenType = "->"

	// IDENT covers primitive and invented names as well as type
	// constructor names; the engine's name charset includes operator
	// characters, so "+" and "empty?" are plain identifiers.
	IDENT TokenType = "IDENT"

	LAMBDA TokenType = "LAMBDA"

	// INDEX is a de Bruijn variable reference; Literal holds the digits.
	INDEX TokenType = "INDEX"

	HOLE     TokenType = "HOLE"
	CONTHOLE TokenType = "CONTHOLE"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}
