// Package action implements the Action sum type and its Plan → Step
// lowering: variant selection, top-level `where` evaluation, and the
// typed, per-kind lowering tables described in spec.md §4.4.
package action

import (
	statumerrors "github.com/cloudhex/statum/pkg/errors"
	"github.com/cloudhex/statum/internal/condition"
	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/step"
)

// ManifestInfo is the subset of Manifest an Action's lowering needs: its
// name (for error messages) and root directory (for resolving file.copy's
// `from:` relative to `<root>/files/`).
type ManifestInfo struct {
	Name    string
	RootDir string
}

// Lowerer is implemented by each action kind's typed record. Lower performs
// the pure, side-effect-free translation into Steps; it must not touch the
// filesystem for anything beyond reading manifest-relative source content.
type Lowerer interface {
	Lower(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error)
	Summarize() string
	Privileged() bool
}

// Variant is one variants[] entry: a Where guard plus a full override body
// of the same kind as the Action it belongs to.
type Variant struct {
	Where string
	Body  Lowerer
}

// Action is the tagged-union record described in spec.md §3: a kind string,
// an optional top-level `where`, a list of guarded variant overrides, and
// the kind-specific body.
type Action struct {
	Kind     string
	Where    string
	Variants []Variant
	Body     Lowerer

	// OnVariantError, when set, receives a non-fatal warning each time a
	// variant's `where` fails to evaluate (spec.md §4.4: errors are
	// treated as false with a logged warning, not propagated).
	OnVariantError func(variantIndex int, err error)
}

// Plan performs variant selection, then the top-level where check, then
// the chosen body's Lower. A matched variant always skips the action's own
// top-level where — the variant record replaces the base wholesale for
// this call.
func (a *Action) Plan(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	body := a.Body
	variantMatched := false

	for i, v := range a.Variants {
		matched, err := condition.EvaluateVariant(v.Where, c)
		if err != nil {
			if a.OnVariantError != nil {
				a.OnVariantError(i, err)
			}
			continue
		}
		if matched {
			body = v.Body
			variantMatched = true
			break
		}
	}

	if !variantMatched && a.Where != "" {
		ok, err := condition.Evaluate(a.Where, c)
		if err != nil {
			return nil, statumerrors.NewPlanError(mi.Name, a.Kind, err)
		}
		if !ok {
			return nil, nil
		}
	}

	steps, err := body.Lower(mi, c)
	if err != nil {
		return nil, statumerrors.NewPlanError(mi.Name, a.Kind, err)
	}
	return steps, nil
}

// IsPrivileged reports whether the base body's lowering contains any
// privileged Exec step; variant bodies are not consulted. Package actions
// are unconditionally privileged.
func (a *Action) IsPrivileged() bool {
	return a.Body.Privileged()
}

// Summarize returns a short human-readable description for status/log
// output.
func (a *Action) Summarize() string {
	return a.Body.Summarize()
}
