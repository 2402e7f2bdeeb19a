package typesystem

import (
	"fmt"
	"strings"

	"github.com/enumlab/sketch/internal/config"
)

// Type is the interface for all types in our system. Types are immutable
// values; equality is structural after substitution.
type Type interface {
	String() string
	// Apply resolves the type to its most-substituted form under ctx.
	Apply(ctx Context) Type
	// FreeVariables returns the variable indices occurring in the type,
	// in first-occurrence order.
	FreeVariables() []int
}

// TVar represents a type variable. The index is meaningful only relative to
// the Context it was minted in.
type TVar struct {
	ID int
}

func (t TVar) String() string { return fmt.Sprintf("t%d", t.ID) }

func (t TVar) Apply(ctx Context) Type {
	if bound, ok := ctx.lookup(t.ID); ok {
		// The substitution is acyclic (Bind runs the occurs check), so this
		// recursion terminates.
		return bound.Apply(ctx)
	}
	return t
}

func (t TVar) FreeVariables() []int { return []int{t.ID} }

// TCon represents a constructed type: a named constructor applied to zero or
// more argument types. The arrow constructor is a TCon like any other.
type TCon struct {
	Name string
	Args []Type
}

func (t TCon) String() string {
	if t.Name == config.ArrowTypeName {
		lhs := t.Args[0].String()
		if IsArrow(t.Args[0]) {
			lhs = "(" + lhs + ")"
		}
		return lhs + " -> " + t.Args[1].String()
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(args, ", "))
}

func (t TCon) Apply(ctx Context) Type {
	if len(t.Args) == 0 {
		return t
	}
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Apply(ctx)
	}
	return TCon{Name: t.Name, Args: args}
}

func (t TCon) FreeVariables() []int {
	var vars []int
	for _, a := range t.Args {
		vars = append(vars, a.FreeVariables()...)
	}
	return uniqueInts(vars)
}

// Base types and constructors shared by the demo libraries and the tests.
var (
	Int  = TCon{Name: config.IntTypeName}
	Bool = TCon{Name: config.BoolTypeName}
)

// List builds the parametric list type.
func List(elem Type) TCon {
	return TCon{Name: config.ListTypeName, Args: []Type{elem}}
}

// Arrow builds a right-associated function type from the given types:
// Arrow(a, b, c) is a -> (b -> c). At least two types are required.
func Arrow(ts ...Type) Type {
	if len(ts) == 1 {
		return ts[0]
	}
	return TCon{Name: config.ArrowTypeName, Args: []Type{ts[0], Arrow(ts[1:]...)}}
}

// IsArrow reports whether t is a function type.
func IsArrow(t Type) bool {
	c, ok := t.(TCon)
	return ok && c.Name == config.ArrowTypeName
}

// SplitArrow returns the argument and return type of a function type.
func SplitArrow(t Type) (arg, ret Type, ok bool) {
	c, isCon := t.(TCon)
	if !isCon || c.Name != config.ArrowTypeName {
		return nil, nil, false
	}
	return c.Args[0], c.Args[1], true
}

// ArgumentTypes returns the argument types of t, left to right. A non-arrow
// type has no arguments.
func ArgumentTypes(t Type) []Type {
	var args []Type
	for {
		arg, ret, ok := SplitArrow(t)
		if !ok {
			return args
		}
		args = append(args, arg)
		t = ret
	}
}

// FinalReturn returns the type t yields once saturated with all its
// arguments; for a non-arrow type that is t itself.
func FinalReturn(t Type) Type {
	for {
		_, ret, ok := SplitArrow(t)
		if !ok {
			return t
		}
		t = ret
	}
}

// Occurs reports whether variable id appears free in t.
func Occurs(id int, t Type) bool {
	for _, v := range t.FreeVariables() {
		if v == id {
			return true
		}
	}
	return false
}

func uniqueInts(xs []int) []int {
	var unique []int
	seen := map[int]bool{}
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			unique = append(unique, x)
		}
	}
	return unique
}
