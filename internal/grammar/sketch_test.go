package grammar

import (
	"math"
	"strings"
	"testing"

	"github.com/enumlab/sketch/internal/parser"
	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

// listLeaves is a tiny list vocabulary on top of the arithmetic one.
func listLeaves() []program.Program {
	tv := typesystem.TVar{ID: 0}
	return append(arithLeaves(),
		prim("empty", typesystem.List(tv)),
		prim("cons", typesystem.Arrow(tv, typesystem.List(tv), typesystem.List(tv))),
		prim("fold", typesystem.Arrow(
			typesystem.List(typesystem.TVar{ID: 0}),
			typesystem.TVar{ID: 1},
			typesystem.Arrow(typesystem.TVar{ID: 0}, typesystem.TVar{ID: 1}, typesystem.TVar{ID: 1}),
			typesystem.TVar{ID: 1},
		)),
	)
}

type leafResolver []program.Program

func (r leafResolver) Lookup(name string) (program.Program, bool) {
	for _, leaf := range r {
		if p, ok := leaf.(program.Primitive); ok && p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func listGrammar(t *testing.T) (*Grammar, leafResolver) {
	t.Helper()
	leaves := listLeaves()
	g, err := Uniform(leaves)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	return g, leafResolver(leaves)
}

func mustParse(t *testing.T, r parser.Resolver, src string) program.Program {
	t.Helper()
	p, err := parser.Parse(src, r)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	return p
}

func collectSketch(t *testing.T, g *Grammar, request typesystem.Type, sketch program.Program, bound float64) []Result {
	t.Helper()
	var out []Result
	for r := range g.EnumerateSketch(typesystem.Empty, nil, request, sketch, bound, false) {
		out = append(out, r)
	}
	return out
}

func TestEnumerateSketchComplete(t *testing.T) {
	g := arithGrammar(t)

	// A sketch without holes yields exactly itself, at its own likelihood.
	sketch := prim("0", typesystem.Int)
	results := collectSketch(t, g, typesystem.Int, sketch, 6.0)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %v", len(results), results)
	}
	if !program.Equal(results[0].Program, sketch) {
		t.Fatalf("got %s, want 0", results[0].Program)
	}
	if want := -math.Log(3); math.Abs(results[0].LogLikelihood-want) > 1e-9 {
		t.Fatalf("ll = %f, want %f", results[0].LogLikelihood, want)
	}
}

func TestEnumerateSketchPreservesStructure(t *testing.T) {
	g := arithGrammar(t)
	sketch := program.Apply(
		prim("+", typesystem.Arrow(typesystem.Int, typesystem.Int, typesystem.Int)),
		program.Hole{},
		prim("1", typesystem.Int),
	)
	results := collectSketch(t, g, typesystem.Int, sketch, 8.0)
	if len(results) == 0 {
		t.Fatal("no completions")
	}
	for i, r := range results {
		s := r.Program.String()
		if !strings.HasPrefix(s, "(+ ") || !strings.HasSuffix(s, " 1)") {
			t.Errorf("completion %s does not preserve the sketch structure", s)
		}
		if r.Program.HasHoles() {
			t.Errorf("completion %s still has holes", s)
		}
		if i > 0 && r.LogLikelihood > results[i-1].LogLikelihood {
			t.Errorf("completion %d %s is more likely than its predecessor", i, s)
		}
		ll, err := g.LogLikelihood(typesystem.Int, r.Program)
		if err != nil {
			t.Fatalf("scoring %s: %v", s, err)
		}
		if math.Abs(ll-r.LogLikelihood) > 1e-9 {
			t.Errorf("%s enumerated at %f but scores %f", s, r.LogLikelihood, ll)
		}
	}
}

func TestEnumerateSketchPolymorphic(t *testing.T) {
	g, resolver := listGrammar(t)
	request, err := parser.ParseType("list(int) -> list(int)")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	sketch := mustParse(t, resolver, "(lambda (fold $0 empty (lambda (lambda (cons <HOLE> $0)))))")

	results := collectSketch(t, g, request, sketch, 14.0)
	if len(results) == 0 {
		t.Fatal("no completions")
	}
	for _, r := range results {
		s := r.Program.String()
		if !strings.HasPrefix(s, "(lambda (fold $0 empty (lambda (lambda (cons ") {
			t.Errorf("completion %s does not preserve the sketch structure", s)
		}
		ll, err := g.LogLikelihood(request, r.Program)
		if err != nil {
			t.Fatalf("scoring %s: %v", s, err)
		}
		if math.Abs(ll-r.LogLikelihood) > 1e-9 {
			t.Errorf("%s enumerated at %f but scores %f", s, r.LogLikelihood, ll)
		}
	}
}

func TestEnumerateSketchFunctionTypedHole(t *testing.T) {
	g, resolver := listGrammar(t)
	request := typesystem.Arrow(typesystem.List(typesystem.Int), typesystem.Int)

	// The hole requests fold's reducer, an int -> int -> int. Completing it
	// must branch into full enumeration, which introduces the two
	// abstractions itself.
	sketch := mustParse(t, resolver, "(lambda (fold $0 0 <HOLE>))")
	results := collectSketch(t, g, request, sketch, 10.0)
	if len(results) == 0 {
		t.Fatal("no completions")
	}
	for _, r := range results {
		s := r.Program.String()
		if !strings.HasPrefix(s, "(lambda (fold $0 0 (lambda (lambda ") {
			t.Errorf("completion %s does not expand the reducer", s)
		}
		if r.Program.HasHoles() {
			t.Errorf("completion %s still has holes", s)
		}
		ll, err := g.LogLikelihood(request, r.Program)
		if err != nil {
			t.Fatalf("scoring %s: %v", s, err)
		}
		if math.Abs(ll-r.LogLikelihood) > 1e-9 {
			t.Errorf("%s enumerated at %f but scores %f", s, r.LogLikelihood, ll)
		}
	}
}

func TestEnumerateSketchIllFitting(t *testing.T) {
	g := arithGrammar(t)

	// A bare leaf cannot complete a function request.
	results := collectSketch(t, g, typesystem.Arrow(typesystem.Int, typesystem.Int), prim("0", typesystem.Int), 6.0)
	if len(results) != 0 {
		t.Fatalf("expected no completions, got %v", results)
	}
}
