package typesystem

import (
	"fmt"
	"strings"
)

// Context is an immutable unification context: a substitution over type
// variables plus the counter used to mint fresh ones. The zero value is the
// empty context. Contexts are threaded functionally through every operation;
// extending one never modifies it, so contexts may be shared freely across
// goroutines.
type Context struct {
	next     int
	bindings *binding
}

// binding is a persistent list cell, most recent binding first.
type binding struct {
	id   int
	tp   Type
	prev *binding
}

// Empty is the empty context.
var Empty = Context{}

// FreshVariable mints a type variable unused in the context.
func (c Context) FreshVariable() (Context, TVar) {
	v := TVar{ID: c.next}
	return Context{next: c.next + 1, bindings: c.bindings}, v
}

func (c Context) lookup(id int) (Type, bool) {
	for b := c.bindings; b != nil; b = b.prev {
		if b.id == id {
			return b.tp, true
		}
	}
	return nil, false
}

func (c Context) bind(id int, t Type) Context {
	// Unify accepts variables minted elsewhere (recorded hole types, raw
	// parsed schemes); the fresh counter must move past them or a later
	// FreshVariable would re-mint a bound or referenced ID.
	next := c.next
	if id >= next {
		next = id + 1
	}
	for _, v := range t.FreeVariables() {
		if v >= next {
			next = v + 1
		}
	}
	return Context{next: next, bindings: &binding{id: id, tp: t, prev: c.bindings}}
}

// Apply resolves t to its most-substituted form under the context.
func (c Context) Apply(t Type) Type {
	return t.Apply(c)
}

// Unify extends the context so that t1 and t2 become equal, binding free
// variables greedily left-to-right. It fails with a *UnificationError on
// constructor mismatch, arity mismatch, or an occurs-check violation.
func (c Context) Unify(t1, t2 Type) (Context, error) {
	t1 = c.Apply(t1)
	t2 = c.Apply(t2)

	if v1, ok := t1.(TVar); ok {
		if v2, ok := t2.(TVar); ok && v1.ID == v2.ID {
			return c, nil
		}
		if Occurs(v1.ID, t2) {
			return c, errOccurs(v1, t2)
		}
		return c.bind(v1.ID, t2), nil
	}
	if v2, ok := t2.(TVar); ok {
		if Occurs(v2.ID, t1) {
			return c, errOccurs(v2, t1)
		}
		return c.bind(v2.ID, t1), nil
	}

	c1 := t1.(TCon)
	c2 := t2.(TCon)
	if c1.Name != c2.Name {
		return c, errUnify(t1, t2, "constructor mismatch")
	}
	if len(c1.Args) != len(c2.Args) {
		return c, errUnify(t1, t2, fmt.Sprintf("arity mismatch: %d vs %d", len(c1.Args), len(c2.Args)))
	}
	ctx := c
	for i := range c1.Args {
		var err error
		ctx, err = ctx.Unify(c1.Args[i], c2.Args[i])
		if err != nil {
			return c, err
		}
	}
	return ctx, nil
}

// Instantiate replaces every variable of the type scheme t with a fresh
// variable sharing no binding with existing ones, so the scheme can be
// unified against a request without clobbering earlier uses. Scheme
// variables are context independent: they are renamed as written, never
// resolved through the substitution, so a scheme stays polymorphic no matter
// what the context has bound under the same IDs. Callers holding a
// context-relative type must Apply it themselves before instantiating.
func (c Context) Instantiate(t Type) (Context, Type) {
	ctx := c
	renaming := map[int]TVar{}
	var walk func(Type) Type
	walk = func(t Type) Type {
		switch t := t.(type) {
		case TVar:
			fresh, ok := renaming[t.ID]
			if !ok {
				ctx, fresh = ctx.FreshVariable()
				renaming[t.ID] = fresh
			}
			return fresh
		case TCon:
			if len(t.Args) == 0 {
				return t
			}
			args := make([]Type, len(t.Args))
			for i, a := range t.Args {
				args[i] = walk(a)
			}
			return TCon{Name: t.Name, Args: args}
		default:
			return t
		}
	}
	return ctx, walk(t)
}

func (c Context) String() string {
	var parts []string
	for b := c.bindings; b != nil; b = b.prev {
		parts = append(parts, fmt.Sprintf("t%d=%s", b.id, b.tp))
	}
	return fmt.Sprintf("{next=%d, %s}", c.next, strings.Join(parts, ", "))
}
