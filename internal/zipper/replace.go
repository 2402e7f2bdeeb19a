package zipper

import (
	"fmt"
	"strings"

	"github.com/enumlab/sketch/internal/program"
)

// PathError indicates a zipper path that no longer resolves in the given
// program, usually a zipper reused after an earlier replacement changed the
// tree underneath it.
type PathError struct {
	Path []Move
	At   int
	Node program.Program
}

func (e *PathError) Error() string {
	moves := make([]string, len(e.Path))
	for i, m := range e.Path {
		moves[i] = m.String()
	}
	return fmt.Sprintf("stale zipper path [%s] at step %d: cannot descend into %T", strings.Join(moves, " "), e.At, e.Node)
}

// InvalidHoleOperation indicates a move in a direction the current node does
// not support: a malformed program or navigator misuse.
type InvalidHoleOperation struct {
	Move Move
	Node program.Program
}

func (e *InvalidHoleOperation) Error() string {
	return fmt.Sprintf("invalid %s move on %T node", e.Move, e.Node)
}

// Replace substitutes sub at the hole z points to and returns the new whole
// program. The original program is never mutated: only the nodes along the
// path are rebuilt, every sibling subtree is shared by reference.
func Replace(p program.Program, z Zipper, sub program.Program) (program.Program, error) {
	return replaceAt(p, z.Path, 0, sub)
}

func replaceAt(p program.Program, path []Move, at int, sub program.Program) (program.Program, error) {
	if at == len(path) {
		if _, ok := p.(program.Hole); !ok {
			return nil, &PathError{Path: path, At: at, Node: p}
		}
		return sub, nil
	}

	switch n := p.(type) {
	case program.Application:
		switch path[at] {
		case MoveFunction:
			f, err := replaceAt(n.F, path, at+1, sub)
			if err != nil {
				return nil, err
			}
			return program.Application{F: f, X: n.X}, nil
		case MoveArgument:
			x, err := replaceAt(n.X, path, at+1, sub)
			if err != nil {
				return nil, err
			}
			return program.Application{F: n.F, X: x}, nil
		default:
			return nil, &InvalidHoleOperation{Move: path[at], Node: p}
		}

	case program.Abstraction:
		if path[at] != MoveBody {
			return nil, &InvalidHoleOperation{Move: path[at], Node: p}
		}
		body, err := replaceAt(n.Body, path, at+1, sub)
		if err != nil {
			return nil, err
		}
		return program.Abstraction{Body: body}, nil

	default:
		return nil, &PathError{Path: path, At: at, Node: p}
	}
}
