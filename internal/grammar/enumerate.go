package grammar

import (
	"iter"
	"math"
	"sort"

	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

// budgetIncrement is the width of one likelihood slice. The search explores
// slices of increasing description length and sorts within each, which
// yields results in exact non-increasing likelihood order without ever
// materializing the whole frontier.
const budgetIncrement = 1.0

// maxEnumerationDepth caps the expansion depth as a safety net for grammars
// with a zero-cost production (a lone candidate renormalizes to weight 0).
const maxEnumerationDepth = 64

// Result is one enumerated program together with its log-likelihood and the
// unification context it was derived under.
type Result struct {
	LogLikelihood float64
	Context       typesystem.Context
	Program       program.Program
}

// Enumerate lazily yields programs of the requested type with log-likelihood
// strictly above -bound, in non-increasing likelihood order. When holes is
// true, every expansion point may also terminate early in a typed hole,
// producing sketches alongside complete programs. The sequence is finite for
// any finite bound; abandoning it early wastes no work beyond the slice
// already being explored.
func (g *Grammar) Enumerate(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, bound float64, holes bool) iter.Seq[Result] {
	// Request types arrive as written schemes; rename their variables into
	// the context before unifying anything against them.
	ctx, request = ctx.Instantiate(request)
	return func(yield func(Result) bool) {
		for lower := 0.0; lower < bound; lower += budgetIncrement {
			upper := math.Min(lower+budgetIncrement, bound)
			var slice []Result
			g.enumerate(ctx, env, request, upper, lower, maxEnumerationDepth, holes, func(r Result) {
				slice = append(slice, r)
			})
			sort.SliceStable(slice, func(i, j int) bool {
				return slice[i].LogLikelihood > slice[j].LogLikelihood
			})
			for _, r := range slice {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// enumerate emits every derivation whose description length (negative
// log-likelihood) lands in [lower, upper). Budgets shrink as weight is
// spent, which both prunes and terminates the recursion.
func (g *Grammar) enumerate(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, upper, lower float64, depth int, holes bool, emit func(Result)) {
	if upper <= 0 || depth <= 0 {
		return
	}
	request = ctx.Apply(request)

	// A function request always introduces exactly one abstraction, at no
	// probability cost: abstraction is not a scored production.
	if arg, ret, ok := typesystem.SplitArrow(request); ok {
		g.enumerate(ctx, append([]typesystem.Type{arg}, env...), ret, upper, lower, depth, holes, func(r Result) {
			emit(Result{LogLikelihood: r.LogLikelihood, Context: r.Context, Program: program.Abstraction{Body: r.Program}})
		})
		return
	}

	if holes {
		if cost := -g.LogHole; lower <= cost && cost < upper {
			emit(Result{
				LogLikelihood: g.LogHole,
				Context:       ctx,
				Program:       program.Hole{Type: request, Env: append([]typesystem.Type(nil), env...)},
			})
		}
	}

	for _, c := range g.candidates(ctx, env, request) {
		if -c.logWeight >= upper {
			continue
		}
		weight := c.logWeight
		g.enumerateApplication(c.ctx, env, c.leaf, typesystem.ArgumentTypes(c.tp), upper+weight, lower+weight, depth-1, holes, func(r Result) {
			emit(Result{LogLikelihood: r.LogLikelihood + weight, Context: r.Context, Program: r.Program})
		})
	}
}

// enumerateApplication fills the remaining argument requests of f left to
// right, decrementing the budget by each argument's cost.
func (g *Grammar) enumerateApplication(ctx typesystem.Context, env []typesystem.Type, f program.Program, argRequests []typesystem.Type, upper, lower float64, depth int, holes bool, emit func(Result)) {
	if upper <= 0 || depth <= 0 {
		return
	}
	if len(argRequests) == 0 {
		if lower <= 0 && 0 < upper {
			emit(Result{LogLikelihood: 0, Context: ctx, Program: f})
		}
		return
	}

	argRequest := ctx.Apply(argRequests[0])
	g.enumerate(ctx, env, argRequest, upper, 0, depth, holes, func(a Result) {
		cost := a.LogLikelihood
		g.enumerateApplication(a.Context, env, program.Application{F: f, X: a.Program}, argRequests[1:], upper+cost, lower+cost, depth, holes, func(r Result) {
			emit(Result{LogLikelihood: r.LogLikelihood + cost, Context: r.Context, Program: r.Program})
		})
	})
}
