// Package search builds complete programs out of sketches by repeated
// single-hole expansion, optionally steered by an external value callback.
package search

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/enumlab/sketch/internal/grammar"
	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
	"github.com/enumlab/sketch/internal/zipper"
)

// Value scores a candidate, possibly still holding holes, against a task.
// Higher is better. The engine places no constraint on how the score is
// computed; typically it comes from a learned model.
type Value func(p program.Program, task any) float64

// StepLimitError reports a rollout that did not complete within its step
// budget.
type StepLimitError struct {
	Steps   int
	Partial program.Program
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("rollout still incomplete after %d steps: %s", e.Steps, e.Partial)
}

// RolloutFromSketch fills the holes of sketch one production at a time,
// sampling each decision from the grammar, until the program is complete.
func RolloutFromSketch(g *grammar.Grammar, sketch program.Program, request typesystem.Type, maxSteps int, rng *rand.Rand) (program.Program, error) {
	p := sketch
	zippers, err := zipper.FindHoles(p, request)
	if err != nil {
		return nil, err
	}
	for steps := 0; len(zippers) > 0; steps++ {
		if steps >= maxSteps {
			return nil, &StepLimitError{Steps: maxSteps, Partial: p}
		}
		p, zippers, err = g.SampleSingleStep(p, request, zippers, rng)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// GuidedComplete is a rollout where every step draws k candidate expansions
// of the first hole and commits to the one the value callback scores
// highest. With k of one it degenerates to RolloutFromSketch.
func GuidedComplete(g *grammar.Grammar, sketch program.Program, request typesystem.Type, task any, value Value, k, maxSteps int, rng *rand.Rand) (program.Program, error) {
	if k < 1 {
		k = 1
	}
	p := sketch
	zippers, err := zipper.FindHoles(p, request)
	if err != nil {
		return nil, err
	}
	for steps := 0; len(zippers) > 0; steps++ {
		if steps >= maxSteps {
			return nil, &StepLimitError{Steps: maxSteps, Partial: p}
		}

		best := math.Inf(-1)
		var bestProgram program.Program
		var bestZippers []zipper.Zipper
		for i := 0; i < k; i++ {
			candidate, next, err := g.SampleSingleStep(p, request, zippers, rng)
			if err != nil {
				return nil, err
			}
			if score := value(candidate, task); score > best || bestProgram == nil {
				best = score
				bestProgram = candidate
				bestZippers = next
			}
		}
		p, zippers = bestProgram, bestZippers
	}
	return p, nil
}
