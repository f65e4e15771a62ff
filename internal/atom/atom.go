// Package atom implements the lowest-level units of work statum executes:
// each Atom knows how to decide, cheaply and without side effects, whether
// it needs to run (Plan), and how to actually make the change (Execute).
package atom

import "context"

// Outcome is the result of Plan(): whether Execute is necessary, plus a
// human-readable description of what Execute would do (used for dry-run
// output and logging).
type Outcome struct {
	ShouldRun   bool
	SideEffects []string
}

// Atom is one idempotent unit of work. Plan must not mutate any state it
// inspects; Execute performs the mutation and may use secret (an elevation
// password) when the underlying operation needs a privileged subprocess.
type Atom interface {
	// Plan inspects current system state and reports whether Execute needs
	// to run. It must be side-effect free.
	Plan(ctx context.Context) (Outcome, error)

	// Execute performs the atom's effect. Only called when Plan reported
	// ShouldRun. secret is the elevation password, empty when the atom does
	// not need privilege.
	Execute(ctx context.Context, secret string) error

	// OutputString is a short human-readable summary of the last Execute
	// (e.g. captured command stdout), used for logging and verification.
	OutputString() string

	// ErrorMessage returns the message to surface when Execute fails;
	// distinct from the Go error returned by Execute so atoms can add
	// domain-specific context (e.g. failed asset match).
	ErrorMessage() string

	// StatusCode reports a Unix-style exit status for Exec-backed atoms; 0
	// for atoms with no natural exit code concept.
	StatusCode() int
}

// base provides the OutputString/ErrorMessage/StatusCode bookkeeping shared
// by every concrete Atom, mirroring the teacher's habit of a small shared
// result struct (internal/model.StepResult) threaded through each plugin.
type base struct {
	output  string
	errMsg  string
	status  int
}

func (b *base) OutputString() string { return b.output }
func (b *base) ErrorMessage() string { return b.errMsg }
func (b *base) StatusCode() int      { return b.status }

func (b *base) setOutput(s string) { b.output = s }
func (b *base) setError(err error) {
	if err != nil {
		b.errMsg = err.Error()
	}
}
func (b *base) setStatus(code int) { b.status = code }
