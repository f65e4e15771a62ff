package atom

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecPlanAlwaysRuns(t *testing.T) {
	a := &Exec{Command: "true"}
	outcome, err := a.Plan(context.Background())
	require.NoError(t, err)
	require.True(t, outcome.ShouldRun)

	outcome, err = a.Plan(context.Background())
	require.NoError(t, err)
	require.True(t, outcome.ShouldRun)
}

func TestExecExecuteCapturesStatusAndOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix-only command")
	}
	a := &Exec{Command: "echo", Args: []string{"hi"}}
	err := a.Execute(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 0, a.StatusCode())
	require.Contains(t, a.OutputString(), "hi")
}

func TestExecExecuteReportsNonZeroExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix-only command")
	}
	a := &Exec{Command: "false"}
	err := a.Execute(context.Background(), "")
	require.Error(t, err)
	require.Equal(t, 1, a.StatusCode())
	require.NotEmpty(t, a.ErrorMessage())
}
