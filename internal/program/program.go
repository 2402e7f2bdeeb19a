// Package program defines the typed lambda calculus term representation the
// engine searches over. Programs are persistent, structurally shared trees:
// editing operations rebuild the path from the root to the edit point and
// reuse every untouched subtree by reference.
package program

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/enumlab/sketch/internal/config"
	"github.com/enumlab/sketch/internal/typesystem"
)

// Program is one node of a program tree. A program containing no Hole node is
// complete; one with holes is a sketch.
type Program interface {
	String() string
	// HasHoles reports whether the subtree contains a Hole node.
	HasHoles() bool
	// Size counts the nodes of the subtree.
	Size() int
}

// Index is a de Bruijn reference to the i-th innermost enclosing abstraction.
type Index struct {
	I int
}

func (p Index) String() string { return fmt.Sprintf("%s%d", config.IndexPrefix, p.I) }
func (p Index) HasHoles() bool { return false }
func (p Index) Size() int      { return 1 }

// Primitive is a named leaf with a fixed (possibly polymorphic) type scheme
// and an opaque host value. The engine never invokes Value; execution belongs
// to an external evaluator.
type Primitive struct {
	Name  string
	Type  typesystem.Type
	Value any
}

func (p Primitive) String() string { return p.Name }
func (p Primitive) HasHoles() bool { return false }
func (p Primitive) Size() int      { return 1 }

// Invented is a leaf that is itself a closed program, reusable as a unit.
// For typing and likelihood it behaves exactly like a primitive.
type Invented struct {
	Name string
	Type typesystem.Type
	Body Program
}

func (p Invented) String() string {
	if p.Name != "" {
		return p.Name
	}
	return config.InventedPrefix + "(" + p.Body.String() + ")"
}
func (p Invented) HasHoles() bool { return false }
func (p Invented) Size() int      { return 1 }

// Application is function application.
type Application struct {
	F Program
	X Program
}

func (p Application) String() string {
	// Print the whole application spine in one set of parentheses,
	// (f x y) rather than ((f x) y).
	f, xs := SpineOf(p)
	parts := make([]string, 0, len(xs)+1)
	parts = append(parts, f.String())
	for _, x := range xs {
		parts = append(parts, x.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (p Application) HasHoles() bool { return p.F.HasHoles() || p.X.HasHoles() }
func (p Application) Size() int      { return 1 + p.F.Size() + p.X.Size() }

// Abstraction introduces exactly one bound variable, of a type to be
// inferred, over Body.
type Abstraction struct {
	Body Program
}

func (p Abstraction) String() string {
	return "(" + config.LambdaKeyword + " " + p.Body.String() + ")"
}
func (p Abstraction) HasHoles() bool { return p.Body.HasHoles() }
func (p Abstraction) Size() int      { return 1 + p.Body.Size() }

// Hole is a placeholder for an unfilled subexpression. Type and Env are
// captured at the moment the hole is created: Env lists the types of all
// enclosing abstractions, innermost first. A hole parsed from text carries a
// nil Type and Env until a traversal derives them.
type Hole struct {
	Type typesystem.Type
	Env  []typesystem.Type

	// Continuation marks the structurally distinguished hole kind used in
	// domains with side-effecting primitives. Typing and search treat it
	// exactly like an ordinary hole.
	Continuation bool
}

func (p Hole) String() string {
	if p.Continuation {
		return config.ContinuationHoleMarker
	}
	return config.HoleMarker
}
func (p Hole) HasHoles() bool { return true }
func (p Hole) Size() int      { return 1 }

// SpineOf decomposes an application spine into its head and arguments,
// left to right: for ((f x) y) it returns f, [x y].
func SpineOf(p Program) (Program, []Program) {
	var xs []Program
	for {
		app, ok := p.(Application)
		if !ok {
			return p, xs
		}
		xs = append([]Program{app.X}, xs...)
		p = app.F
	}
}

// Apply builds an application spine of f over xs.
func Apply(f Program, xs ...Program) Program {
	for _, x := range xs {
		f = Application{F: f, X: x}
	}
	return f
}

// Equal is structural equality of program trees.
func Equal(a, b Program) bool {
	return reflect.DeepEqual(a, b)
}
