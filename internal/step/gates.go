package step

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/cloudhex/statum/internal/atom"
)

// CommandFound looks Name up on PATH.
type CommandFound struct {
	Name string
}

func (g CommandFound) Initialize(ctx context.Context) (bool, error) {
	_, err := exec.LookPath(g.Name)
	return err == nil, nil
}

// FileExists checks for Path's presence.
type FileExists struct {
	Path string
}

func (g FileExists) Initialize(ctx context.Context) (bool, error) {
	_, err := os.Stat(g.Path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// SetEnvVars mutates the process environment before the atom runs. Used as
// an Ensure initializer wrapping command.run when env: is set.
type SetEnvVars struct {
	Vars map[string]string
}

func (g SetEnvVars) Initialize(ctx context.Context) (bool, error) {
	for k, v := range g.Vars {
		if err := os.Setenv(k, v); err != nil {
			return false, err
		}
	}
	return true, nil
}

// RemoveEnvVars unsets the named variables after the atom runs. Used as an
// Ensure finalizer wrapping command.run when env: is set.
type RemoveEnvVars struct {
	Names []string
}

func (g RemoveEnvVars) Finalize(ctx context.Context, a atom.Atom) (bool, error) {
	for _, name := range g.Names {
		if err := os.Unsetenv(name); err != nil {
			return false, err
		}
	}
	return true, nil
}

// OutputContains inspects the atom's captured stdout for a case-insensitive
// substring match.
type OutputContains struct {
	Substr string
}

func (g OutputContains) Finalize(ctx context.Context, a atom.Atom) (bool, error) {
	return strings.Contains(strings.ToLower(a.OutputString()), strings.ToLower(g.Substr)), nil
}
