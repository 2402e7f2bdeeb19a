package grammar

import (
	"math/rand"

	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
	"github.com/enumlab/sketch/internal/zipper"
)

// SampleSingleStep expands exactly the first hole of p with a single drawn
// production whose arguments become fresh holes. It returns the grown sketch
// and the recomputed hole zippers; iterating until the zipper list is empty
// performs a full top-down rollout one decision at a time. Passing nil
// zippers recomputes them from p; a program without holes is returned
// unchanged.
func (g *Grammar) SampleSingleStep(p program.Program, request typesystem.Type, zippers []zipper.Zipper, rng *rand.Rand) (program.Program, []zipper.Zipper, error) {
	if zippers == nil {
		var err error
		zippers, err = zipper.FindHoles(p, request)
		if err != nil {
			return nil, nil, err
		}
	}
	if len(zippers) == 0 {
		return p, zippers, nil
	}

	z := zippers[0]
	filling, err := g.sampleOneStep(z.Context, z.Env, z.Type, rng)
	if err != nil {
		return nil, nil, err
	}
	grown, err := zipper.Replace(p, z, filling)
	if err != nil {
		return nil, nil, err
	}
	next, err := zipper.FindHoles(grown, request)
	if err != nil {
		return nil, nil, err
	}
	return grown, next, nil
}

// sampleOneStep draws one production for the request and applies it to fresh
// holes, one per argument. A function request grows an abstraction whose
// body is a hole.
func (g *Grammar) sampleOneStep(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, rng *rand.Rand) (program.Program, error) {
	request = ctx.Apply(request)

	if arg, ret, ok := typesystem.SplitArrow(request); ok {
		return program.Abstraction{
			Body: program.Hole{Type: ret, Env: append([]typesystem.Type{arg}, env...)},
		}, nil
	}

	cands := g.candidates(ctx, env, request)
	if len(cands) == 0 {
		return nil, &NoCandidateError{Request: request}
	}
	c := drawCandidate(cands, rng)

	p := c.leaf
	for _, argType := range typesystem.ArgumentTypes(c.tp) {
		p = program.Application{F: p, X: program.Hole{
			Type: c.ctx.Apply(argType),
			Env:  append([]typesystem.Type(nil), env...),
		}}
	}
	return p, nil
}
