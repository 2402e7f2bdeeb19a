package search

import (
	"fmt"

	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
	"github.com/enumlab/sketch/internal/zipper"
)

// Trace replays p as the canonical sequence of sketches a rollout would pass
// through: starting from the base hole of the request, each step expands the
// first remaining hole with one production of p, holes standing in for its
// arguments. The returned slice starts at the base sketch and ends with p
// itself. Only complete programs can be traced.
func Trace(p program.Program, request typesystem.Type) ([]program.Program, error) {
	if p.HasHoles() {
		return nil, fmt.Errorf("cannot trace a sketch: %s still has holes", p)
	}

	sketch := zipper.BaseHole(request)
	trace := []program.Program{sketch}
	for steps := 0; ; steps++ {
		zippers, err := zipper.FindHoles(sketch, request)
		if err != nil {
			return nil, err
		}
		if len(zippers) == 0 {
			return trace, nil
		}
		if steps > p.Size()*2 {
			return nil, &StepLimitError{Steps: steps, Partial: sketch}
		}

		target, err := subtreeAt(p, zippers[0].Path)
		if err != nil {
			return nil, err
		}
		sketch, err = zipper.Replace(sketch, zippers[0], expansionOf(target))
		if err != nil {
			return nil, err
		}
		trace = append(trace, sketch)
	}
}

// expansionOf is the single production step that introduces target: its spine
// head over one hole per argument, or one abstraction over a hole.
func expansionOf(target program.Program) program.Program {
	if _, ok := target.(program.Abstraction); ok {
		return program.Abstraction{Body: program.Hole{}}
	}
	head, xs := program.SpineOf(target)
	holes := make([]program.Program, len(xs))
	for i := range holes {
		holes[i] = program.Hole{}
	}
	return program.Apply(head, holes...)
}

// subtreeAt resolves a zipper path against a complete program.
func subtreeAt(p program.Program, path []zipper.Move) (program.Program, error) {
	for i, m := range path {
		switch n := p.(type) {
		case program.Application:
			switch m {
			case zipper.MoveFunction:
				p = n.F
			case zipper.MoveArgument:
				p = n.X
			default:
				return nil, fmt.Errorf("path step %d: %s move on application", i, m)
			}
		case program.Abstraction:
			if m != zipper.MoveBody {
				return nil, fmt.Errorf("path step %d: %s move on abstraction", i, m)
			}
			p = n.Body
		default:
			return nil, fmt.Errorf("path step %d: cannot descend into %T", i, p)
		}
	}
	return p, nil
}
