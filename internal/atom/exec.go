package atom

import (
	"context"
	"fmt"

	"github.com/cloudhex/statum/internal/execrunner"
)

// Exec runs a command via internal/execrunner. Commands are opaque side
// effects to the planner: Plan always reports ShouldRun=true (spec.md §4.1)
// — idempotence for command.run lowerings comes from the Step's gates, not
// from the atom itself.
type Exec struct {
	base
	Command    string
	Args       []string
	Dir        string
	Env        map[string]string
	Privileged bool
	Provider   string
}

func (a *Exec) Plan(ctx context.Context) (Outcome, error) {
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("run %s %v", a.Command, a.Args)}}, nil
}

func (a *Exec) Execute(ctx context.Context, secret string) error {
	result, err := execrunner.Run(ctx, execrunner.Spec{
		Command:    a.Command,
		Args:       a.Args,
		Dir:        a.Dir,
		Env:        a.Env,
		Privileged: a.Privileged,
		Provider:   a.Provider,
		Secret:     secret,
	})
	a.setStatus(result.ExitCode)
	a.setOutput(result.Stdout)
	if err != nil {
		a.setError(err)
		return err
	}
	if result.ExitCode != 0 {
		execErr := fmt.Errorf("%s exited with status %d: %s", a.Command, result.ExitCode, result.Stderr)
		a.setError(execErr)
		return execErr
	}
	return nil
}
