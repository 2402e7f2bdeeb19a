// Package zipper locates holes inside a program tree. A Zipper is a cursor:
// the move path from the root to one hole, the type that hole must have, and
// the variable environment in force there. Zipper batches are snapshots of
// one specific program value; after any replacement the remaining zippers are
// stale and must be rediscovered with FindHoles.
package zipper

import (
	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

// Move is one step of a path from the program root.
type Move int

const (
	// MoveFunction descends into the function of an application.
	MoveFunction Move = iota
	// MoveArgument descends into the argument of an application.
	MoveArgument
	// MoveBody descends into the body of an abstraction.
	MoveBody
)

func (m Move) String() string {
	switch m {
	case MoveFunction:
		return "function"
	case MoveArgument:
		return "argument"
	case MoveBody:
		return "body"
	default:
		return "invalid"
	}
}

// Zipper identifies one hole within a specific program instance.
type Zipper struct {
	Path []Move
	// Type is the type the hole must have, resolved as far as the
	// traversal's context allows.
	Type typesystem.Type
	// Env lists the types of the abstractions enclosing the hole,
	// innermost first.
	Env []typesystem.Type
	// Context is the unification context accumulated on the way down.
	Context typesystem.Context
}

// FindHoles traverses p left-to-right, outside-in, type-checking as it
// descends, and returns one zipper per hole in traversal order. This order is
// the contract single-step samplers rely on: the first zipper is always the
// first remaining hole.
func FindHoles(p program.Program, request typesystem.Type) ([]Zipper, error) {
	ctx, req := typesystem.Empty.Instantiate(request)
	var zippers []Zipper
	_, err := findHoles(ctx, p, req, nil, nil, &zippers)
	if err != nil {
		return nil, err
	}
	return zippers, nil
}

func findHoles(ctx typesystem.Context, p program.Program, request typesystem.Type, env []typesystem.Type, path []Move, out *[]Zipper) (typesystem.Context, error) {
	request = ctx.Apply(request)

	switch p := p.(type) {
	case program.Hole:
		if p.Type != nil {
			var err error
			ctx, err = ctx.Unify(p.Type, request)
			if err != nil {
				return ctx, err
			}
		}
		*out = append(*out, Zipper{
			Path:    append([]Move(nil), path...),
			Type:    ctx.Apply(request),
			Env:     append([]typesystem.Type(nil), env...),
			Context: ctx,
		})
		return ctx, nil

	case program.Abstraction:
		arg, ret, ok := typesystem.SplitArrow(request)
		if !ok {
			v, isVar := request.(typesystem.TVar)
			if !isVar {
				return ctx, &typesystem.UnificationError{Left: request, Right: request, Reason: "abstraction at non-function request"}
			}
			var a, r typesystem.TVar
			ctx, a = ctx.FreshVariable()
			ctx, r = ctx.FreshVariable()
			var err error
			ctx, err = ctx.Unify(v, typesystem.Arrow(a, r))
			if err != nil {
				return ctx, err
			}
			arg, ret = a, r
		}
		return findHoles(ctx, p.Body, ret, append([]typesystem.Type{arg}, env...), append(path, MoveBody), out)

	case program.Application:
		// Derive the argument type from the function's inferred type, then
		// visit the function subtree before the argument subtree.
		ctx, tf, err := program.Infer(ctx, env, p.F)
		if err != nil {
			return ctx, err
		}
		var argType typesystem.TVar
		ctx, argType = ctx.FreshVariable()
		ctx, err = ctx.Unify(tf, typesystem.Arrow(argType, request))
		if err != nil {
			return ctx, err
		}
		ctx, err = findHoles(ctx, p.F, ctx.Apply(tf), env, append(path, MoveFunction), out)
		if err != nil {
			return ctx, err
		}
		return findHoles(ctx, p.X, argType, env, append(path, MoveArgument), out)

	default:
		// Leaf: check it against the request and carry the bindings along.
		ctx, tp, err := program.Infer(ctx, env, p)
		if err != nil {
			return ctx, err
		}
		return ctx.Unify(tp, request)
	}
}

// BaseHole returns the canonical initial sketch for a request: one
// abstraction per arrow argument and a single hole at the final return type,
// with the matching environment recorded in the hole.
func BaseHole(request typesystem.Type) program.Program {
	args := typesystem.ArgumentTypes(request)
	env := make([]typesystem.Type, len(args))
	for i, a := range args {
		env[len(args)-1-i] = a
	}
	var p program.Program = program.Hole{Type: typesystem.FinalReturn(request), Env: env}
	for range args {
		p = program.Abstraction{Body: p}
	}
	return p
}
