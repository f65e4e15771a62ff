package action

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudhex/statum/internal/atom"
	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/step"
)

func TestCommandRunLowersToSingleExecStep(t *testing.T) {
	c := CommandRun{Command: "echo", Args: []string{"hi"}}
	steps, err := c.Lower(ManifestInfo{Name: "m"}, contexts.New(nil))
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Empty(t, steps[0].Initializers)
	require.Empty(t, steps[0].Finalizers)

	execAtom, ok := steps[0].Atom.(*atom.Exec)
	require.True(t, ok)
	require.Equal(t, "echo", execAtom.Command)
}

func TestCommandRunWithEnvWrapsSetAndRemoveGates(t *testing.T) {
	c := CommandRun{Command: "env", Env: map[string]string{"FOO": "bar"}}
	steps, err := c.Lower(ManifestInfo{Name: "m"}, contexts.New(nil))
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Len(t, steps[0].Initializers, 1)
	require.Len(t, steps[0].Finalizers, 1)

	_, ok := steps[0].Initializers[0].Predicate.(step.SetEnvVars)
	require.True(t, ok)
	_, ok = steps[0].Finalizers[0].Check.(step.RemoveEnvVars)
	require.True(t, ok)
}

func TestCommandRunPrivilegedPropagatesToExecAtom(t *testing.T) {
	c := CommandRun{Command: "apt-get", Elevated: true}
	require.True(t, c.Privileged())

	steps, err := c.Lower(ManifestInfo{Name: "m"}, contexts.New(nil))
	require.NoError(t, err)
	execAtom := steps[0].Atom.(*atom.Exec)
	require.True(t, execAtom.Privileged)
}
