package lexer

import (
	"testing"

	"github.com/enumlab/sketch/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `(lambda (fold <HOLE> 0 (lambda (lambda (+ $1 $0))))) <CONT_HOLE> list(int) -> int empty?`

	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.LPAREN, "("},
		{token.LAMBDA, "lambda"},
		{token.LPAREN, "("},
		{token.IDENT, "fold"},
		{token.HOLE, "<HOLE>"},
		{token.IDENT, "0"},
		{token.LPAREN, "("},
		{token.LAMBDA, "lambda"},
		{token.LPAREN, "("},
		{token.LAMBDA, "lambda"},
		{token.LPAREN, "("},
		{token.IDENT, "+"},
		{token.INDEX, "1"},
		{token.INDEX, "0"},
		{token.RPAREN, ")"},
		{token.RPAREN, ")"},
		{token.RPAREN, ")"},
		{token.RPAREN, ")"},
		{token.RPAREN, ")"},
		{token.CONTHOLE, "<CONT_HOLE>"},
		{token.IDENT, "list"},
		{token.LPAREN, "("},
		{token.IDENT, "int"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.IDENT, "int"},
		{token.IDENT, "empty?"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.typ {
			t.Fatalf("token %d: type = %s, want %s (literal %q)", i, tok.Type, want.typ, tok.Literal)
		}
		if tok.Literal != want.literal {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, want.literal)
		}
	}
}

func TestArrowSplitsIdent(t *testing.T) {
	l := New("int->int")
	toks := []token.Token{l.NextToken(), l.NextToken(), l.NextToken()}
	if toks[0].Type != token.IDENT || toks[0].Literal != "int" {
		t.Errorf("first token = %v", toks[0])
	}
	if toks[1].Type != token.ARROW {
		t.Errorf("second token = %v", toks[1])
	}
	if toks[2].Type != token.IDENT || toks[2].Literal != "int" {
		t.Errorf("third token = %v", toks[2])
	}
}

func TestMinusIsIdent(t *testing.T) {
	l := New("(- 1 $0)")
	l.NextToken() // (
	tok := l.NextToken()
	if tok.Type != token.IDENT || tok.Literal != "-" {
		t.Errorf("minus lexed as %v", tok)
	}
}

func TestUnknownMarkerIsIllegal(t *testing.T) {
	l := New("<WAT>")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Errorf("unknown marker lexed as %v", tok)
	}
}
