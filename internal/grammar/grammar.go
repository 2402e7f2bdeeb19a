// Package grammar implements the weighted production grammar over typed
// programs: likelihood scoring, best-first bounded enumeration, sketch
// completion, and top-down sampling. A grammar is immutable during search;
// every operation threads its unification context functionally, so one
// grammar may serve many concurrent searches.
package grammar

import (
	"fmt"
	"math"
	"strings"

	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

// Production is one weighted grammar entry: a primitive or invented leaf
// with its type scheme and unnormalized log-weight.
type Production struct {
	LogWeight float64
	Type      typesystem.Type
	Leaf      program.Program
}

// Grammar is a weighted set of productions plus one shared weight for
// referencing an environment variable. The weights actually used during
// search are renormalized (log-softmax) over the candidates whose type
// unifies with each request.
type Grammar struct {
	// LogVariable is the single weight shared by all eligible de Bruijn
	// references at a request; it is split evenly across however many
	// variables are type-compatible.
	LogVariable float64

	// LogHole is the log-weight of terminating an expansion with a hole
	// when hole enumeration is on. Zero keeps holes free of charge;
	// strictly negative values make every open site cost something.
	LogHole float64

	Productions []Production
}

// Uniform builds a grammar giving every production the same weight. Leaves
// must be Primitive or Invented nodes carrying a type scheme.
func Uniform(leaves []program.Program) (*Grammar, error) {
	prods := make([]Production, 0, len(leaves))
	for _, leaf := range leaves {
		tp, ok := program.LeafType(leaf)
		if !ok || tp == nil {
			return nil, fmt.Errorf("grammar production %s is not a typed primitive or invented leaf", leaf)
		}
		prods = append(prods, Production{LogWeight: 0, Type: tp, Leaf: leaf})
	}
	return &Grammar{LogVariable: 0, Productions: prods}, nil
}

func (g *Grammar) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%f\t$_\n", g.LogVariable)
	for _, prod := range g.Productions {
		fmt.Fprintf(&b, "%f\t%s : %s\n", prod.LogWeight, prod.Leaf, prod.Type)
	}
	return b.String()
}

// candidate is one admissible expansion at a request: a leaf, its
// instantiated type unified against the request, the context that resulted,
// and its renormalized log-weight.
type candidate struct {
	logWeight float64
	tp        typesystem.Type
	ctx       typesystem.Context
	leaf      program.Program
}

// candidates collects the productions and environment variables whose type
// can unify with the request, splits LogVariable across the eligible
// variables, and renormalizes everything by log-softmax. An empty result
// means the request is underivable here.
func (g *Grammar) candidates(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type) []candidate {
	var cands []candidate
	for _, prod := range g.Productions {
		c, tp := ctx.Instantiate(prod.Type)
		c, err := c.Unify(typesystem.FinalReturn(tp), request)
		if err != nil {
			continue
		}
		cands = append(cands, candidate{logWeight: prod.LogWeight, tp: c.Apply(tp), ctx: c, leaf: prod.Leaf})
	}

	var variables []candidate
	for j, tp := range env {
		c, err := ctx.Unify(typesystem.FinalReturn(ctx.Apply(tp)), request)
		if err != nil {
			continue
		}
		variables = append(variables, candidate{tp: c.Apply(tp), ctx: c, leaf: program.Index{I: j}})
	}
	if len(variables) > 0 {
		split := g.LogVariable - math.Log(float64(len(variables)))
		for i := range variables {
			variables[i].logWeight = split
		}
		cands = append(cands, variables...)
	}

	if len(cands) == 0 {
		return nil
	}
	weights := make([]float64, len(cands))
	for i, c := range cands {
		weights[i] = c.logWeight
	}
	z := logSumExp(weights)
	for i := range cands {
		cands[i].logWeight -= z
	}
	return cands
}

// matchCandidate finds the candidate whose leaf is the given head symbol.
// Primitives are matched by name; callers are responsible for keeping names
// unique within one grammar.
func matchCandidate(cands []candidate, head program.Program) (candidate, bool) {
	for _, c := range cands {
		if sameLeaf(c.leaf, head) {
			return c, true
		}
	}
	return candidate{}, false
}

func sameLeaf(a, b program.Program) bool {
	if pa, ok := a.(program.Primitive); ok {
		pb, ok := b.(program.Primitive)
		return ok && pa.Name == pb.Name
	}
	if ia, ok := a.(program.Invented); ok {
		ib, ok := b.(program.Invented)
		return ok && program.Equal(ia.Body, ib.Body)
	}
	return program.Equal(a, b)
}
