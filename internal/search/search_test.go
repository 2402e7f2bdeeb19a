package search

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/enumlab/sketch/internal/grammar"
	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
	"github.com/enumlab/sketch/internal/zipper"
)

func arithGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g, err := grammar.Uniform([]program.Program{
		program.Primitive{Name: "0", Type: typesystem.Int},
		program.Primitive{Name: "1", Type: typesystem.Int},
		program.Primitive{Name: "+", Type: typesystem.Arrow(typesystem.Int, typesystem.Int, typesystem.Int)},
	})
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	return g
}

func TestRolloutFromSketch(t *testing.T) {
	g := arithGrammar(t)
	rng := rand.New(rand.NewSource(9))
	request := typesystem.Arrow(typesystem.Int, typesystem.Int)

	for i := 0; i < 20; i++ {
		p, err := RolloutFromSketch(g, zipper.BaseHole(request), request, 10000, rng)
		if err != nil {
			t.Fatalf("RolloutFromSketch: %v", err)
		}
		if p.HasHoles() {
			t.Fatalf("rollout left holes: %s", p)
		}
		if _, err := g.LogLikelihood(request, p); err != nil {
			t.Fatalf("rollout result %s does not score: %v", p, err)
		}
	}
}

func TestRolloutStepLimit(t *testing.T) {
	g := arithGrammar(t)
	rng := rand.New(rand.NewSource(9))
	request := typesystem.Arrow(typesystem.Int, typesystem.Int)

	_, err := RolloutFromSketch(g, zipper.BaseHole(request), request, 0, rng)
	var limit *StepLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("err = %v, want *StepLimitError", err)
	}
	if limit.Partial == nil || !limit.Partial.HasHoles() {
		t.Fatalf("step limit should carry the partial sketch, got %v", limit.Partial)
	}
}

func TestTraceRebuildsProgram(t *testing.T) {
	request := typesystem.Arrow(typesystem.Int, typesystem.Int)
	p := program.Abstraction{Body: program.Apply(
		program.Primitive{Name: "+", Type: typesystem.Arrow(typesystem.Int, typesystem.Int, typesystem.Int)},
		program.Primitive{Name: "1", Type: typesystem.Int},
		program.Index{I: 0},
	)}

	trace, err := Trace(p, request)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	want := []string{
		"(lambda <HOLE>)",
		"(lambda (+ <HOLE> <HOLE>))",
		"(lambda (+ 1 <HOLE>))",
		"(lambda (+ 1 $0))",
	}
	if len(trace) != len(want) {
		t.Fatalf("trace has %d sketches, want %d: %v", len(trace), len(want), trace)
	}
	for i, w := range want {
		if got := trace[i].String(); got != w {
			t.Errorf("sketch %d = %s, want %s", i, got, w)
		}
	}
	if !program.Equal(trace[len(trace)-1], p) {
		t.Errorf("trace does not end at the program itself: %s", trace[len(trace)-1])
	}
}

func TestTraceRejectsSketch(t *testing.T) {
	request := typesystem.Arrow(typesystem.Int, typesystem.Int)
	if _, err := Trace(program.Abstraction{Body: program.Hole{}}, request); err == nil {
		t.Fatal("Trace accepted a program with holes")
	}
}

func TestGuidedCompletePrefersSmall(t *testing.T) {
	g := arithGrammar(t)
	rng := rand.New(rand.NewSource(6))
	request := typesystem.Arrow(typesystem.Int, typesystem.Int)

	// Penalizing size steers every step away from growing the tree, so the
	// result is a single leaf under the lambda.
	smaller := func(p program.Program, task any) float64 { return -float64(p.Size()) }
	p, err := GuidedComplete(g, zipper.BaseHole(request), request, nil, smaller, 10, 100, rng)
	if err != nil {
		t.Fatalf("GuidedComplete: %v", err)
	}
	if p.HasHoles() {
		t.Fatalf("completion left holes: %s", p)
	}
	if strings.Contains(p.String(), "+") {
		t.Fatalf("size-penalizing guidance still grew an application: %s", p)
	}
}

func TestGuidedCompleteTaskThreading(t *testing.T) {
	g := arithGrammar(t)
	rng := rand.New(rand.NewSource(12))
	request := typesystem.Arrow(typesystem.Int, typesystem.Int)

	sawTask := false
	check := func(p program.Program, task any) float64 {
		if task == "task-7" {
			sawTask = true
		}
		return -float64(p.Size())
	}
	if _, err := GuidedComplete(g, zipper.BaseHole(request), request, "task-7", check, 2, 200, rng); err != nil {
		t.Fatalf("GuidedComplete: %v", err)
	}
	if !sawTask {
		t.Fatal("value callback never saw its task context")
	}
}
