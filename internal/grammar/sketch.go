package grammar

import (
	"iter"
	"math"
	"sort"

	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

// EnumerateSketch enumerates completions of sketch at the requested type:
// every non-hole node of the sketch is replayed exactly, paying its grammar
// cost, and the search branches only at holes. Results are syntactically
// identical to the sketch outside hole positions and arrive in
// non-increasing likelihood order. A sketch without holes yields exactly
// itself, at its own likelihood.
func (g *Grammar) EnumerateSketch(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, sketch program.Program, bound float64, holes bool) iter.Seq[Result] {
	ctx, request = ctx.Instantiate(request)
	return func(yield func(Result) bool) {
		for lower := 0.0; lower < bound; lower += budgetIncrement {
			upper := math.Min(lower+budgetIncrement, bound)
			var slice []Result
			g.sketchEnumerate(ctx, env, request, sketch, upper, lower, maxEnumerationDepth, holes, func(r Result) {
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

func (g *Grammar) sketchEnumerate(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, sk program.Program, upper, lower float64, depth int, holes bool, emit func(Result)) {
	if upper <= 0 || depth <= 0 {
		return
	}
	request = ctx.Apply(request)

	// A hole at a function-typed position branches into full enumeration,
	// which introduces the abstractions itself.
	if _, ok := sk.(program.Hole); ok {
		g.enumerate(ctx, env, request, upper, lower, depth, holes, emit)
		return
	}

	if arg, ret, ok := typesystem.SplitArrow(request); ok {
		abs, ok := sk.(program.Abstraction)
		if !ok {
			// The sketch does not fit the request; there is nothing to
			// complete.
			return
		}
		g.sketchEnumerate(ctx, append([]typesystem.Type{arg}, env...), ret, abs.Body, upper, lower, depth, holes, func(r Result) {
			emit(Result{LogLikelihood: r.LogLikelihood, Context: r.Context, Program: program.Abstraction{Body: r.Program}})
		})
		return
	}

	head, xs := program.SpineOf(sk)
	c, ok := matchCandidate(g.candidates(ctx, env, request), head)
	if !ok {
		return
	}
	if -c.logWeight >= upper {
		return
	}
	weight := c.logWeight
	g.sketchApplication(c.ctx, env, c.leaf, xs, typesystem.ArgumentTypes(c.tp), upper+weight, lower+weight, depth-1, holes, func(r Result) {
		emit(Result{LogLikelihood: r.LogLikelihood + weight, Context: r.Context, Program: r.Program})
	})
}

func (g *Grammar) sketchApplication(ctx typesystem.Context, env []typesystem.Type, f program.Program, sketchArgs []program.Program, argRequests []typesystem.Type, upper, lower float64, depth int, holes bool, emit func(Result)) {
	if upper <= 0 || depth <= 0 {
		return
	}
	if len(argRequests) == 0 {
		if len(sketchArgs) != 0 {
			return
		}
		if lower <= 0 && 0 < upper {
			emit(Result{LogLikelihood: 0, Context: ctx, Program: f})
		}
		return
	}
	if len(sketchArgs) == 0 {
		return
	}

	argRequest := ctx.Apply(argRequests[0])
	g.sketchEnumerate(ctx, env, argRequest, sketchArgs[0], upper, 0, depth, holes, func(a Result) {
		cost := a.LogLikelihood
		g.sketchApplication(a.Context, env, program.Application{F: f, X: a.Program}, sketchArgs[1:], argRequests[1:], upper+cost, lower+cost, depth, holes, func(r Result) {
			emit(Result{LogLikelihood: r.LogLikelihood + cost, Context: r.Context, Program: r.Program})
		})
	})
}
