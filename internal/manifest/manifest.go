// Package manifest implements the Manifest type and its Execute algorithm:
// label filter, where-condition, then each Action's plan→filter→dry-run
// short-circuit→execute→finalizer loop, per spec.md §4.5.
package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudhex/statum/internal/action"
	"github.com/cloudhex/statum/internal/condition"
	"github.com/cloudhex/statum/internal/contexts"
	statumerrors "github.com/cloudhex/statum/pkg/errors"
)

// State is a Manifest's lifecycle state (§3: Pending, Working, Completed,
// Failed(err)).
type State int

const (
	StatePending State = iota
	StateWorking
	StateCompleted
	StateFailed
)

// Manifest is the declarative unit workers execute.
type Manifest struct {
	Name    string
	Labels  []string
	Where   string
	Depends []string
	Actions []*action.Action
	RootDir string

	State State
	Err   error
}

// Options configures a single Execute call.
type Options struct {
	DryRun      bool
	LabelFilter string
	// Secret is the elevation password injected into privileged Exec
	// atoms; empty when no PasswordManager is attached to this run.
	Secret string
}

// Execute runs the Manifest's algorithm from spec.md §4.5. A nil error with
// m.State left at StateCompleted means every Action ran (or was correctly
// skipped); a non-nil error also sets m.State to StateFailed and m.Err.
func (m *Manifest) Execute(ctx context.Context, opts Options, c contexts.Contexts) error {
	m.State = StateWorking

	if opts.LabelFilter != "" && !hasLabel(m.Labels, opts.LabelFilter) {
		m.State = StateCompleted
		return nil
	}

	if m.Where != "" {
		ok, err := condition.Evaluate(m.Where, c)
		if err != nil {
			return m.fail(err)
		}
		if !ok {
			m.State = StateCompleted
			return nil
		}
	}

	mi := action.ManifestInfo{Name: m.Name, RootDir: m.RootDir}
	for _, a := range m.Actions {
		if err := m.executeAction(ctx, a, mi, opts, c); err != nil {
			return m.fail(err)
		}
	}

	m.State = StateCompleted
	return nil
}

func (m *Manifest) executeAction(ctx context.Context, a *action.Action, mi action.ManifestInfo, opts Options, c contexts.Contexts) error {
	steps, err := a.Plan(mi, c)
	if err != nil {
		return err
	}

	runnable := steps[:0]
	for _, s := range steps {
		allowed, err := s.AllowedToRun(ctx)
		if err != nil {
			// AtomPlanError-equivalent: the gate itself errored, fail-safe
			// skip this step, continue with siblings.
			continue
		}
		if !allowed {
			continue
		}
		outcome, err := s.Atom.Plan(ctx)
		if err != nil {
			// Atom.Plan() errored: filter this atom out with a logged
			// warning, sibling atoms continue.
			fmt.Fprintf(os.Stderr, "warning: skipping step %s: plan failed: %v\n", s.ID, err)
			continue
		}
		if !outcome.ShouldRun {
			continue
		}
		runnable = append(runnable, s)
	}

	if len(runnable) == 0 {
		return nil
	}
	if opts.DryRun {
		return nil
	}

	for _, s := range runnable {
		if err := s.Atom.Execute(ctx, opts.Secret); err != nil {
			return statumerrors.NewExecutionError(s.ID, err)
		}
		if !s.AllowedToContinue(ctx) {
			return nil
		}
	}
	return nil
}

func (m *Manifest) fail(err error) error {
	m.State = StateFailed
	m.Err = err
	return err
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
