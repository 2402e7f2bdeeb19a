package program

import (
	"fmt"

	"github.com/enumlab/sketch/internal/typesystem"
)

// UnboundIndexError indicates a de Bruijn reference outside its environment,
// which means the program tree is malformed.
type UnboundIndexError struct {
	Index int
	Depth int
}

func (e *UnboundIndexError) Error() string {
	return fmt.Sprintf("unbound index $%d in environment of depth %d", e.Index, e.Depth)
}

// LeafType returns the declared type scheme of a Primitive or Invented leaf.
func LeafType(p Program) (typesystem.Type, bool) {
	switch p := p.(type) {
	case Primitive:
		return p.Type, true
	case Invented:
		return p.Type, true
	default:
		return nil, false
	}
}

// Infer computes the type of p in the given variable environment (innermost
// binder first), threading the unification context. Primitive and invented
// type schemes are instantiated with fresh variables; a hole contributes its
// recorded type, or a fresh variable if it was parsed without one.
func Infer(ctx typesystem.Context, env []typesystem.Type, p Program) (typesystem.Context, typesystem.Type, error) {
	switch p := p.(type) {
	case Index:
		if p.I < 0 || p.I >= len(env) {
			return ctx, nil, &UnboundIndexError{Index: p.I, Depth: len(env)}
		}
		return ctx, ctx.Apply(env[p.I]), nil

	case Primitive:
		ctx, t := ctx.Instantiate(p.Type)
		return ctx, t, nil

	case Invented:
		ctx, t := ctx.Instantiate(p.Type)
		return ctx, t, nil

	case Abstraction:
		ctx, arg := ctx.FreshVariable()
		ctx, body, err := Infer(ctx, append([]typesystem.Type{arg}, env...), p.Body)
		if err != nil {
			return ctx, nil, err
		}
		return ctx, typesystem.Arrow(ctx.Apply(arg), body), nil

	case Application:
		ctx, tf, err := Infer(ctx, env, p.F)
		if err != nil {
			return ctx, nil, err
		}
		ctx, tx, err := Infer(ctx, env, p.X)
		if err != nil {
			return ctx, nil, err
		}
		ctx, ret := ctx.FreshVariable()
		ctx, err = ctx.Unify(tf, typesystem.Arrow(tx, ret))
		if err != nil {
			return ctx, nil, err
		}
		return ctx, ctx.Apply(ret), nil

	case Hole:
		if p.Type == nil {
			ctx, t := ctx.FreshVariable()
			return ctx, t, nil
		}
		return ctx, ctx.Apply(p.Type), nil

	default:
		return ctx, nil, fmt.Errorf("unknown program node %T", p)
	}
}
