package atom

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGitClonePlanRequestsCloneWhenDestIsNotARepo(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "repo")

	a := &GitClone{URL: "https://example.invalid/repo.git", Dest: dest}
	outcome, err := a.Plan(context.Background())
	require.NoError(t, err)
	require.True(t, outcome.ShouldRun)
	require.NotEmpty(t, outcome.SideEffects)
}
