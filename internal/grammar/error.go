package grammar

import (
	"fmt"

	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
)

// NoCandidateError indicates that a head symbol is not derivable from the
// grammar at the requested type. During search it means the branch has
// probability zero.
type NoCandidateError struct {
	Head    program.Program // nil when no candidate exists at all
	Request typesystem.Type
}

func (e *NoCandidateError) Error() string {
	if e.Head == nil {
		return fmt.Sprintf("no production yields type %s", e.Request)
	}
	return fmt.Sprintf("%s is not derivable at type %s", e.Head, e.Request)
}

// ShapeError indicates a program or sketch whose structure cannot carry the
// requested type, e.g. a non-abstraction scored against a function request.
type ShapeError struct {
	Program program.Program
	Request typesystem.Type
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("program %s does not fit the shape of request %s", e.Program, e.Request)
}

// SamplingExhausted is returned when sampling gives up after its retry
// budget; it is a failure of that sampling attempt, not of the process.
type SamplingExhausted struct {
	Attempts int
	Causes   error
}

func (e *SamplingExhausted) Error() string {
	return fmt.Sprintf("sampling exhausted after %d attempts: %v", e.Attempts, e.Causes)
}

func (e *SamplingExhausted) Unwrap() error { return e.Causes }
