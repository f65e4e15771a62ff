// Package condition evaluates the `where` expressions attached to Manifests
// and Actions, and the per-variant `where` guards used for variant
// selection. It wraps github.com/expr-lang/expr: sandboxed, side-effect
// free boolean expressions over a Contexts-derived scope. There is no
// example repo in the corpus exercising a comparable evaluator with real
// code; this is the Go analogue of the original's embedded rhai scripting
// engine (original_source/lib/src/manifests/mod.rs, to_rhai).
package condition

import (
	"github.com/expr-lang/expr"

	"github.com/cloudhex/statum/internal/contexts"
)

// Evaluate compiles and runs expression against the flattened Contexts
// scope, returning a boolean. Used for top-level Manifest/Action `where`.
func Evaluate(expression string, ctx contexts.Contexts) (bool, error) {
	env := ctx.Flatten()
	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	result, _ := out.(bool)
	return result, nil
}

// EvaluateVariant evaluates a variant `where` guard. A guard that fails to
// compile or evaluate counts as not matched: matched is false and the
// evaluation error is returned alongside it, so the caller can log a
// warning and move on to the next variant instead of failing the plan.
func EvaluateVariant(expression string, ctx contexts.Contexts) (matched bool, evalErr error) {
	matched, evalErr = Evaluate(expression, ctx)
	if evalErr != nil {
		return false, evalErr
	}
	return matched, nil
}
