package zipper

import (
	"errors"
	"testing"

	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

var (
	intT   = typesystem.Int
	tvarA  = typesystem.TVar{ID: 0}
	consP  = program.Primitive{Name: "cons", Type: typesystem.Arrow(tvarA, typesystem.List(tvarA), typesystem.List(tvarA))}
	emptyQ = program.Primitive{Name: "empty?", Type: typesystem.Arrow(typesystem.List(tvarA), typesystem.Bool)}
	plusP  = program.Primitive{Name: "+", Type: typesystem.Arrow(intT, intT, intT)}
	oneP   = program.Primitive{Name: "1", Type: intT}
)

func TestFindHolesOrder(t *testing.T) {
	// (empty? (cons <HOLE> <HOLE>)) : bool
	sketch := program.Apply(emptyQ, program.Apply(consP, program.Hole{}, program.Hole{}))

	zippers, err := FindHoles(sketch, typesystem.Bool)
	if err != nil {
		t.Fatalf("FindHoles: %v", err)
	}
	if len(zippers) != 2 {
		t.Fatalf("found %d zippers, want 2", len(zippers))
	}

	first := []Move{MoveArgument, MoveFunction, MoveArgument}
	second := []Move{MoveArgument, MoveArgument}
	if got := zippers[0].Path; !movesEqual(got, first) {
		t.Errorf("first path = %v, want %v", got, first)
	}
	if got := zippers[1].Path; !movesEqual(got, second) {
		t.Errorf("second path = %v, want %v", got, second)
	}

	// The second hole is the list tail.
	tp, ok := zippers[1].Type.(typesystem.TCon)
	if !ok || tp.Name != "list" {
		t.Errorf("second hole type = %s, want a list", zippers[1].Type)
	}
}

func TestFindHolesEnvironment(t *testing.T) {
	// (lambda (+ 1 <HOLE>)) : int -> int
	sketch := program.Abstraction{Body: program.Apply(plusP, oneP, program.Hole{})}

	zippers, err := FindHoles(sketch, typesystem.Arrow(intT, intT))
	if err != nil {
		t.Fatalf("FindHoles: %v", err)
	}
	if len(zippers) != 1 {
		t.Fatalf("found %d zippers, want 1", len(zippers))
	}
	z := zippers[0]
	if got := z.Type.String(); got != "int" {
		t.Errorf("hole type = %s, want int", got)
	}
	if len(z.Env) != 1 || z.Env[0].String() != "int" {
		t.Errorf("hole env = %v, want [int]", z.Env)
	}
}

func TestFindHolesComplete(t *testing.T) {
	p := program.Abstraction{Body: program.Apply(plusP, oneP, program.Index{I: 0})}
	zippers, err := FindHoles(p, typesystem.Arrow(intT, intT))
	if err != nil {
		t.Fatalf("FindHoles: %v", err)
	}
	if len(zippers) != 0 {
		t.Errorf("complete program produced %d zippers", len(zippers))
	}
}

func TestFindHolesTypeError(t *testing.T) {
	// empty? applied to an int is ill-typed.
	p := program.Apply(emptyQ, oneP)
	if _, err := FindHoles(p, typesystem.Bool); err == nil {
		t.Fatalf("FindHoles accepted ill-typed program")
	}
}

func TestReplaceCompletesSketch(t *testing.T) {
	sketch := program.Abstraction{Body: program.Apply(plusP, oneP, program.Hole{})}
	request := typesystem.Arrow(intT, intT)

	zippers, err := FindHoles(sketch, request)
	if err != nil {
		t.Fatalf("FindHoles: %v", err)
	}
	filled, err := Replace(sketch, zippers[0], program.Index{I: 0})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if filled.HasHoles() {
		t.Errorf("program still has holes after replacing the only one")
	}
	if got := filled.String(); got != "(lambda (+ 1 $0))" {
		t.Errorf("filled = %s", got)
	}
	// The original sketch is untouched.
	if !sketch.HasHoles() {
		t.Errorf("replacement mutated the original sketch")
	}
}

func TestReplaceStalePath(t *testing.T) {
	sketch := program.Abstraction{Body: program.Apply(plusP, oneP, program.Hole{})}
	request := typesystem.Arrow(intT, intT)

	zippers, err := FindHoles(sketch, request)
	if err != nil {
		t.Fatalf("FindHoles: %v", err)
	}
	filled, err := Replace(sketch, zippers[0], program.Index{I: 0})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	// Reusing the zipper against the already-filled program must surface a
	// PathError, not silently hit some other node.
	_, err = Replace(filled, zippers[0], oneP)
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("stale replace returned %v, want *PathError", err)
	}
}

func TestReplaceInvalidMove(t *testing.T) {
	p := program.Abstraction{Body: program.Hole{}}
	z := Zipper{Path: []Move{MoveArgument}}
	_, err := Replace(p, z, oneP)
	var iho *InvalidHoleOperation
	if !errors.As(err, &iho) {
		t.Fatalf("invalid move returned %v, want *InvalidHoleOperation", err)
	}
}

func TestBaseHole(t *testing.T) {
	request := typesystem.Arrow(intT, typesystem.Bool, intT)
	p := BaseHole(request)

	if got := p.String(); got != "(lambda (lambda <HOLE>))" {
		t.Errorf("BaseHole = %s", got)
	}

	zippers, err := FindHoles(p, request)
	if err != nil {
		t.Fatalf("FindHoles: %v", err)
	}
	if len(zippers) != 1 {
		t.Fatalf("found %d zippers, want 1", len(zippers))
	}
	z := zippers[0]
	if got := z.Type.String(); got != "int" {
		t.Errorf("hole type = %s, want int", got)
	}
	// Innermost binder first: bool was bound last.
	if len(z.Env) != 2 || z.Env[0].String() != "bool" || z.Env[1].String() != "int" {
		t.Errorf("hole env = %v, want [bool int]", z.Env)
	}
}

func movesEqual(a, b []Move) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
