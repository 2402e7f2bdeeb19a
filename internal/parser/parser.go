// Package parser reads the parenthesized-prefix program notation and the
// type notation.
//
// Program syntax:
//
//	expr  := $N | name | <HOLE> | <CONT_HOLE>
//	       | '(' 'lambda' expr ')'
//	       | '(' expr expr+ ')'
//
// Application is by juxtaposition and associates to the left: (f x y) is
// ((f x) y). Names are resolved to primitive or invented leaves through a
// Resolver. "#" followed by a parenthesized expression denotes an inline
// invented subprogram.
//
// Type syntax:
//
//	type := atom ('->' type)?                      (right associative)
//	atom := name | name '(' type (',' type)* ')' | '(' type ')' | tN
//
// where tN (t0, t1, ...) is a type variable.
package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/enumlab/sketch/internal/lexer"
	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/token"
	"github.com/enumlab/sketch/internal/typesystem"
)

// Resolver resolves primitive and invented names encountered in program
// text. A grammar's primitive registry implements it.
type Resolver interface {
	Lookup(name string) (program.Program, bool)
}

// ParseError reports a syntax or resolution failure with its position.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

type parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token
}

func newParser(src string) *parser {
	p := &parser{l: lexer.New(src)}
	p.advance()
	p.advance()
	return p
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.cur.Line, Column: p.cur.Column, Message: fmt.Sprintf(format, args...)}
}

// Parse parses a single program expression, resolving names through r.
func Parse(src string, r Resolver) (program.Program, error) {
	p := newParser(src)
	expr, err := p.parseExpr(r)
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.EOF {
		return nil, p.errorf("unexpected trailing %q", p.cur.Literal)
	}
	return expr, nil
}

func (p *parser) parseExpr(r Resolver) (program.Program, error) {
	switch p.cur.Type {
	case token.INDEX:
		i, err := strconv.Atoi(p.cur.Literal)
		if err != nil {
			return nil, p.errorf("bad index %q", p.cur.Literal)
		}
		p.advance()
		return program.Index{I: i}, nil

	case token.HOLE:
		p.advance()
		return program.Hole{}, nil

	case token.CONTHOLE:
		p.advance()
		return program.Hole{Continuation: true}, nil

	case token.IDENT:
		if p.cur.Literal == "#" && p.peek.Type == token.LPAREN {
			return p.parseInvented(r)
		}
		leaf, ok := r.Lookup(p.cur.Literal)
		if !ok {
			return nil, p.errorf("unknown primitive %q", p.cur.Literal)
		}
		p.advance()
		return leaf, nil

	case token.LPAREN:
		return p.parseParenExpr(r)

	default:
		return nil, p.errorf("unexpected token %q", p.cur.Literal)
	}
}

func (p *parser) parseParenExpr(r Resolver) (program.Program, error) {
	p.advance() // consume '('

	if p.cur.Type == token.LAMBDA {
		p.advance()
		body, err := p.parseExpr(r)
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.RPAREN {
			return nil, p.errorf("expected ) after lambda body, got %q", p.cur.Literal)
		}
		p.advance()
		return program.Abstraction{Body: body}, nil
	}

	f, err := p.parseExpr(r)
	if err != nil {
		return nil, err
	}
	var xs []program.Program
	for p.cur.Type != token.RPAREN {
		if p.cur.Type == token.EOF {
			return nil, p.errorf("unexpected end of input, expected )")
		}
		x, err := p.parseExpr(r)
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	p.advance() // consume ')'
	if len(xs) == 0 {
		// A parenthesized single expression is just that expression.
		return f, nil
	}
	return program.Apply(f, xs...), nil
}

// parseInvented parses "#(...)": an inline invented subprogram. Its type is
// inferred on the spot; the body must be closed.
func (p *parser) parseInvented(r Resolver) (program.Program, error) {
	at := p.cur
	p.advance() // consume '#'
	body, err := p.parseExpr(r)
	if err != nil {
		return nil, err
	}
	ctx, tp, err := program.Infer(typesystem.Empty, nil, body)
	if err != nil {
		return nil, &ParseError{Line: at.Line, Column: at.Column, Message: fmt.Sprintf("invented body does not typecheck: %v", err)}
	}
	return program.Invented{Type: ctx.Apply(tp), Body: body}, nil
}

var typeVarPattern = regexp.MustCompile(`^t[0-9]+$`)

// ParseType parses a type: base and parametric constructors, right-
// associative arrows, and tN type variables.
func ParseType(src string) (typesystem.Type, error) {
	p := newParser(src)
	tp, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.EOF {
		return nil, p.errorf("unexpected trailing %q", p.cur.Literal)
	}
	return tp, nil
}

func (p *parser) parseType() (typesystem.Type, error) {
	lhs, err := p.parseTypeAtom()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == token.ARROW {
		p.advance()
		rhs, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return typesystem.Arrow(lhs, rhs), nil
	}
	return lhs, nil
}

func (p *parser) parseTypeAtom() (typesystem.Type, error) {
	switch p.cur.Type {
	case token.LPAREN:
		p.advance()
		tp, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.RPAREN {
			return nil, p.errorf("expected ), got %q", p.cur.Literal)
		}
		p.advance()
		return tp, nil

	case token.IDENT:
		name := p.cur.Literal
		p.advance()
		if typeVarPattern.MatchString(name) {
			id, _ := strconv.Atoi(name[1:])
			return typesystem.TVar{ID: id}, nil
		}
		if p.cur.Type != token.LPAREN {
			return typesystem.TCon{Name: name}, nil
		}
		p.advance()
		var args []typesystem.Type
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Type == token.COMMA {
				p.advance()
				continue
			}
			break
		}
		if p.cur.Type != token.RPAREN {
			return nil, p.errorf("expected ) in type arguments, got %q", p.cur.Literal)
		}
		p.advance()
		return typesystem.TCon{Name: name, Args: args}, nil

	default:
		return nil, p.errorf("unexpected token %q in type", p.cur.Literal)
	}
}
