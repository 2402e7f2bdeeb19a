package grammar

import (
	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

// LogLikelihood computes the total log-probability of drawing p from the
// grammar at the requested type. Programs must be in eta-long form: a
// function-typed position is always an abstraction, never a partial
// application. Holes cost LogHole each, so the likelihood of a sketch is the
// probability mass of its replayed structure.
func (g *Grammar) LogLikelihood(request typesystem.Type, p program.Program) (float64, error) {
	ctx, req := typesystem.Empty.Instantiate(request)
	_, ll, err := g.likelihood(ctx, nil, req, p)
	return ll, err
}

func (g *Grammar) likelihood(ctx typesystem.Context, env []typesystem.Type, request typesystem.Type, p program.Program) (typesystem.Context, float64, error) {
	request = ctx.Apply(request)

	// A hole covers the whole position, function-typed or not, so it must
	// win over the arrow split.
	if _, ok := p.(program.Hole); ok {
		return ctx, g.LogHole, nil
	}

	if arg, ret, ok := typesystem.SplitArrow(request); ok {
		abs, ok := p.(program.Abstraction)
		if !ok {
			return ctx, 0, &ShapeError{Program: p, Request: request}
		}
		return g.likelihood(ctx, append([]typesystem.Type{arg}, env...), ret, abs.Body)
	}

	head, xs := program.SpineOf(p)
	cands := g.candidates(ctx, env, request)
	c, ok := matchCandidate(cands, head)
	if !ok {
		return ctx, 0, &NoCandidateError{Head: head, Request: request}
	}

	ll := c.logWeight
	ctx = c.ctx
	argTypes := typesystem.ArgumentTypes(c.tp)
	if len(argTypes) != len(xs) {
		return ctx, 0, &ShapeError{Program: p, Request: request}
	}
	for i, x := range xs {
		var xll float64
		var err error
		ctx, xll, err = g.likelihood(ctx, env, ctx.Apply(argTypes[i]), x)
		if err != nil {
			return ctx, 0, err
		}
		ll += xll
	}
	return ctx, ll, nil
}
