// Package library manages the primitive vocabulary the synthesis engine
// searches over. A Registry maps primitive names to typed leaves and serves
// as the parser's name resolver; a YAML library file declares primitives,
// invented combinators and their weights, and builds into a grammar.
//
// Primitive values are opaque to the engine. The core only consults a
// primitive's type scheme; application semantics live with the caller.
package library

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

// Registry is a name-keyed collection of grammar leaves. It implements
// parser.Resolver, so a populated registry parses program text directly.
type Registry struct {
	leaves map[string]program.Program
}

func NewRegistry() *Registry {
	return &Registry{leaves: make(map[string]program.Program)}
}

// Register adds a leaf under name. Duplicate names are rejected: the grammar
// matches sketch heads by name, so a collision would corrupt replay.
func (r *Registry) Register(name string, leaf program.Program) error {
	if _, ok := r.leaves[name]; ok {
		return fmt.Errorf("primitive %s is already registered", name)
	}
	if _, ok := program.LeafType(leaf); !ok {
		return fmt.Errorf("primitive %s is not a typed leaf", name)
	}
	r.leaves[name] = leaf
	return nil
}

// Lookup resolves a name to its leaf.
func (r *Registry) Lookup(name string) (program.Program, bool) {
	leaf, ok := r.leaves[name]
	return leaf, ok
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	names := maps.Keys(r.leaves)
	sort.Strings(names)
	return names
}

// Leaves lists the registered leaves in sorted name order.
func (r *Registry) Leaves() []program.Program {
	names := r.Names()
	leaves := make([]program.Program, len(names))
	for i, name := range names {
		leaves[i] = r.leaves[name]
	}
	return leaves
}

// Bootstrap returns the built-in arithmetic and list vocabulary. It is the
// default library of the CLI and a convenient fixture for tests.
func Bootstrap() *Registry {
	t0 := typesystem.TVar{ID: 0}
	t1 := typesystem.TVar{ID: 1}
	r := NewRegistry()
	for _, p := range []program.Primitive{
		{Name: "0", Type: typesystem.Int},
		{Name: "1", Type: typesystem.Int},
		{Name: "+", Type: typesystem.Arrow(typesystem.Int, typesystem.Int, typesystem.Int)},
		{Name: "-", Type: typesystem.Arrow(typesystem.Int, typesystem.Int, typesystem.Int)},
		{Name: "empty", Type: typesystem.List(t0)},
		{Name: "cons", Type: typesystem.Arrow(t0, typesystem.List(t0), typesystem.List(t0))},
		{Name: "car", Type: typesystem.Arrow(typesystem.List(t0), t0)},
		{Name: "cdr", Type: typesystem.Arrow(typesystem.List(t0), typesystem.List(t0))},
		{Name: "empty?", Type: typesystem.Arrow(typesystem.List(t0), typesystem.Bool)},
		{Name: "fold", Type: typesystem.Arrow(typesystem.List(t0), t1, typesystem.Arrow(t0, t1, t1), t1)},
		{Name: "map", Type: typesystem.Arrow(typesystem.Arrow(t0, t1), typesystem.List(t0), typesystem.List(t1))},
	} {
		// Names are unique by construction.
		_ = r.Register(p.Name, p)
	}
	return r
}
