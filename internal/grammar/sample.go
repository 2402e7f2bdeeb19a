package grammar

import (
	"math"
	"math/rand"

	"go.uber.org/multierr"

	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

// maxSampleDepth bounds a single top-down draw; exceeding it counts as a
// dead end and triggers a retry.
const maxSampleDepth = 64

// defaultSketchAttempts is the retry budget of SampleFromSketch, which has
// no caller-supplied one.
const defaultSketchAttempts = 50

// Sample draws one program of the requested type, choosing at every
// expansion point proportionally to the exponentiated renormalized weights.
// Each expansion site independently becomes a typed hole with probability
// holeProb instead of expanding a production. Dead ends (unlucky polymorphic
// instantiations, depth overflow) are retried up to maxAttempts times before
// failing with *SamplingExhausted.
func (g *Grammar) Sample(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, maxAttempts int, holeProb float64, rng *rand.Rand) (program.Program, error) {
	ctx, request = ctx.Instantiate(request)
	var causes error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		_, p, err := g.sampleOne(ctx, env, request, holeProb, rng, maxSampleDepth)
		if err == nil {
			return p, nil
		}
		causes = multierr.Append(causes, err)
	}
	return nil, &SamplingExhausted{Attempts: maxAttempts, Causes: causes}
}

func (g *Grammar) sampleOne(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, holeProb float64, rng *rand.Rand, depth int) (typesystem.Context, program.Program, error) {
	if depth <= 0 {
		return ctx, nil, &NoCandidateError{Request: request}
	}
	request = ctx.Apply(request)

	if arg, ret, ok := typesystem.SplitArrow(request); ok {
		ctx, body, err := g.sampleOne(ctx, append([]typesystem.Type{arg}, env...), ret, holeProb, rng, depth)
		if err != nil {
			return ctx, nil, err
		}
		return ctx, program.Abstraction{Body: body}, nil
	}

	if holeProb > 0 && rng.Float64() < holeProb {
		return ctx, program.Hole{Type: request, Env: append([]typesystem.Type(nil), env...)}, nil
	}

	cands := g.candidates(ctx, env, request)
	if len(cands) == 0 {
		return ctx, nil, &NoCandidateError{Request: request}
	}
	c := drawCandidate(cands, rng)

	ctx = c.ctx
	p := c.leaf
	for _, argType := range typesystem.ArgumentTypes(c.tp) {
		var arg program.Program
		var err error
		ctx, arg, err = g.sampleOne(ctx, env, ctx.Apply(argType), holeProb, rng, depth-1)
		if err != nil {
			return ctx, nil, err
		}
		p = program.Application{F: p, X: arg}
	}
	return ctx, p, nil
}

// drawCandidate samples one candidate proportionally to exp(logWeight).
// Weights are already normalized, so the cumulative mass reaches one.
func drawCandidate(cands []candidate, rng *rand.Rand) candidate {
	u := rng.Float64()
	acc := 0.0
	for _, c := range cands {
		acc += math.Exp(c.logWeight)
		if u < acc {
			return c
		}
	}
	return cands[len(cands)-1]
}

// SampleFromSketch replays the fixed structure of sketch and draws fresh
// fillings, possibly again containing holes, at each of its holes.
func (g *Grammar) SampleFromSketch(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, sketch program.Program, holeProb float64, rng *rand.Rand) (program.Program, error) {
	ctx, request = ctx.Instantiate(request)
	var causes error
	for attempt := 0; attempt < defaultSketchAttempts; attempt++ {
		_, p, err := g.sampleSketch(ctx, env, request, sketch, holeProb, rng, maxSampleDepth)
		if err == nil {
			return p, nil
		}
		causes = multierr.Append(causes, err)
	}
	return nil, &SamplingExhausted{Attempts: defaultSketchAttempts, Causes: causes}
}

func (g *Grammar) sampleSketch(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, sk program.Program, holeProb float64, rng *rand.Rand, depth int) (typesystem.Context, program.Program, error) {
	if depth <= 0 {
		return ctx, nil, &NoCandidateError{Request: request}
	}
	request = ctx.Apply(request)

	// A hole at a function-typed position delegates to sampleOne, which
	// introduces the abstractions itself.
	if _, ok := sk.(program.Hole); ok {
		return g.sampleOne(ctx, env, request, holeProb, rng, depth)
	}

	if arg, ret, ok := typesystem.SplitArrow(request); ok {
		abs, ok := sk.(program.Abstraction)
		if !ok {
			return ctx, nil, &ShapeError{Program: sk, Request: request}
		}
		ctx, body, err := g.sampleSketch(ctx, append([]typesystem.Type{arg}, env...), ret, abs.Body, holeProb, rng, depth)
		if err != nil {
			return ctx, nil, err
		}
		return ctx, program.Abstraction{Body: body}, nil
	}

	head, xs := program.SpineOf(sk)
	c, ok := matchCandidate(g.candidates(ctx, env, request), head)
	if !ok {
		return ctx, nil, &NoCandidateError{Head: head, Request: request}
	}

	ctx = c.ctx
	p := c.leaf
	argTypes := typesystem.ArgumentTypes(c.tp)
	if len(argTypes) != len(xs) {
		return ctx, nil, &ShapeError{Program: sk, Request: request}
	}
	for i, argType := range argTypes {
		var arg program.Program
		var err error
		ctx, arg, err = g.sampleSketch(ctx, env, ctx.Apply(argType), xs[i], holeProb, rng, depth-1)
		if err != nil {
			return ctx, nil, err
		}
		p = program.Application{F: p, X: arg}
	}
	return ctx, p, nil
}
