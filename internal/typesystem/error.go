package typesystem

import "fmt"

// UnificationError indicates that two types cannot be made equal. Callers
// treat it as "this branch has probability zero" and move on; it is never
// fatal to a search.
type UnificationError struct {
	Left   Type
	Right  Type
	Reason string
}

func (e *UnificationError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
}

func errUnify(t1, t2 Type, reason string) error {
	return &UnificationError{Left: t1, Right: t2, Reason: reason}
}

func errOccurs(v TVar, t Type) error {
	return &UnificationError{Left: v, Right: t, Reason: fmt.Sprintf("infinite type: %s occurs in %s", v, t)}
}
