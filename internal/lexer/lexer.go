// Package lexer tokenizes the parenthesized-prefix program syntax and the
// type syntax. Primitive names may contain operator characters ("+", "-",
// "empty?", "3x1"), so there is no separate number token; digits belong to
// the identifier charset.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/enumlab/sketch/internal/config"
	"github.com/enumlab/sketch/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, column := l.line, l.column

	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Line: line, Column: column}
	case l.ch == '(':
		l.readChar()
		return token.Token{Type: token.LPAREN, Literal: "(", Line: line, Column: column}
	case l.ch == ')':
		l.readChar()
		return token.Token{Type: token.RPAREN, Literal: ")", Line: line, Column: column}
	case l.ch == ',':
		l.readChar()
		return token.Token{Type: token.COMMA, Literal: ",", Line: line, Column: column}
	case l.ch == '-' && l.peekChar() == '>':
		l.readChar()
		l.readChar()
		return token.Token{Type: token.ARROW, Literal: "->", Line: line, Column: column}
	case l.ch == '$':
		return l.readIndex(line, column)
	case l.ch == '<':
		return l.readHoleMarker(line, column)
	case isIdentRune(l.ch):
		return l.readIdent(line, column)
	default:
		lit := string(l.ch)
		l.readChar()
		return token.Token{Type: token.ILLEGAL, Literal: lit, Line: line, Column: column}
	}
}

// readIndex lexes a de Bruijn reference: '$' followed by digits.
func (l *Lexer) readIndex(line, column int) token.Token {
	l.readChar() // consume '$'
	start := l.position
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	digits := l.input[start:l.position]
	if digits == "" {
		return token.Token{Type: token.ILLEGAL, Literal: "$", Line: line, Column: column}
	}
	return token.Token{Type: token.INDEX, Literal: digits, Line: line, Column: column}
}

// readHoleMarker lexes "<...>" and matches it against the two hole markers.
func (l *Lexer) readHoleMarker(line, column int) token.Token {
	start := l.position
	for l.ch != '>' && l.ch != 0 {
		l.readChar()
	}
	if l.ch == '>' {
		l.readChar()
	}
	marker := l.input[start:l.position]
	switch marker {
	case config.HoleMarker:
		return token.Token{Type: token.HOLE, Literal: marker, Line: line, Column: column}
	case config.ContinuationHoleMarker:
		return token.Token{Type: token.CONTHOLE, Literal: marker, Line: line, Column: column}
	default:
		return token.Token{Type: token.ILLEGAL, Literal: marker, Line: line, Column: column}
	}
}

func (l *Lexer) readIdent(line, column int) token.Token {
	start := l.position
	for isIdentRune(l.ch) {
		// "->" terminates an identifier so that "int->int" lexes as a type.
		if l.ch == '-' && l.peekChar() == '>' {
			break
		}
		l.readChar()
	}
	lit := l.input[start:l.position]
	if lit == config.LambdaKeyword {
		return token.Token{Type: token.LAMBDA, Literal: lit, Line: line, Column: column}
	}
	return token.Token{Type: token.IDENT, Literal: lit, Line: line, Column: column}
}

const identSymbols = "+-*/?=_.'!&|%^~:@#"

func isIdentRune(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || strings.ContainsRune(identSymbols, ch)
}
