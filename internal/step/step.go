// Package step implements the gate sequences that wrap each Atom: an
// InitGate sequence decides whether the atom runs at all, a FinGate
// sequence decides whether the Action's step loop continues after it runs.
// Semantics are grounded line-for-line on
// original_source/application/src/steps/mod.rs.
package step

import (
	"context"

	"github.com/cloudhex/statum/internal/atom"
)

// Initializer is a pure predicate evaluated before an atom's Plan/Execute.
type Initializer interface {
	Initialize(ctx context.Context) (bool, error)
}

// Finalizer inspects an atom's post-execute observables.
type Finalizer interface {
	Finalize(ctx context.Context, a atom.Atom) (bool, error)
}

// InitGate is either Ensure(predicate) or SkipIf(predicate).
type InitGate struct {
	Predicate Initializer
	SkipIf    bool
}

// FinGate is either Ensure(check) or StopIf(check).
type FinGate struct {
	Check  Finalizer
	StopIf bool
}

// Step owns one Atom plus its init/fin gate sequences.
type Step struct {
	ID          string
	Atom        atom.Atom
	Initializers []InitGate
	Finalizers   []FinGate
}

// AllowedToRun runs the initializer gate in declared order. Ensure(p) keeps
// the step alive only while p returns (true, nil); SkipIf(p) blocks the
// step as soon as p returns (true, nil). Any error from a predicate blocks
// the step — fail safe, never run an atom whose gating predicate errored.
func (s *Step) AllowedToRun(ctx context.Context) (bool, error) {
	for _, gate := range s.Initializers {
		result, err := gate.Predicate.Initialize(ctx)
		if err != nil {
			return false, err
		}
		if gate.SkipIf {
			if result {
				return false, nil
			}
			continue
		}
		if !result {
			return false, nil
		}
	}
	return true, nil
}

// AllowedToContinue runs the finalizer gate after Execute. StopIf(c) keeps
// the containing Action's step loop going only while c returns (false,
// nil); any (true, nil) or error is an early-success stop, not a failure
// (see pkg/errors taxonomy — StopIf never produces an error of its own).
// Ensure(c) keeps the loop going only while c returns (true, nil).
func (s *Step) AllowedToContinue(ctx context.Context) bool {
	for _, gate := range s.Finalizers {
		result, err := gate.Check.Finalize(ctx, s.Atom)
		if gate.StopIf {
			if err != nil || result {
				return false
			}
			continue
		}
		if err != nil || !result {
			return false
		}
	}
	return true
}
