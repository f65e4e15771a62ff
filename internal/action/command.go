package action

import (
	"fmt"
	"strings"

	"github.com/cloudhex/statum/internal/atom"
	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/step"
)

// CommandRun lowers to a single Exec step, wrapped by Ensure(SetEnvVars)/
// Ensure(RemoveEnvVars) gates when Env is set, grounded on
// original_source/lib/src/actions/command/run.rs's RunCommand.
type CommandRun struct {
	Command    string
	Args       []string
	Dir        string
	Env        map[string]string
	Elevated   bool `yaml:"privileged"`
}

func (c CommandRun) Summarize() string {
	return fmt.Sprintf("run %s %s", c.Command, strings.Join(c.Args, " "))
}
func (c CommandRun) Privileged() bool { return c.Elevated }

func (c CommandRun) Lower(mi ManifestInfo, ctx contexts.Contexts) ([]*step.Step, error) {
	s := &step.Step{
		ID: mi.Name + ":exec",
		Atom: &atom.Exec{
			Command:    c.Command,
			Args:       c.Args,
			Dir:        c.Dir,
			Env:        c.Env,
			Privileged: c.Elevated,
		},
	}

	if len(c.Env) > 0 {
		s.Initializers = append(s.Initializers, step.InitGate{Predicate: step.SetEnvVars{Vars: c.Env}})
		names := make([]string, 0, len(c.Env))
		for k := range c.Env {
			names = append(names, k)
		}
		s.Finalizers = append(s.Finalizers, step.FinGate{Check: step.RemoveEnvVars{Names: names}})
	}

	return []*step.Step{s}, nil
}
