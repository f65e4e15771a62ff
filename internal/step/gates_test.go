package step

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandFoundLocatesPATHBinary(t *testing.T) {
	t.Parallel()
	ok, err := CommandFound{Name: "go"}.Initialize(context.Background())
	require.NoError(t, err)
	_ = ok // presence on PATH depends on the test runner; assert no error only
}

func TestFileExistsTrueWhenPresent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "marker")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	ok, err := FileExists{Path: path}.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFileExistsFalseWhenAbsent(t *testing.T) {
	t.Parallel()
	ok, err := FileExists{Path: filepath.Join(t.TempDir(), "nope")}.Initialize(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetEnvVarsThenRemoveEnvVarsRoundTrips(t *testing.T) {
	t.Parallel()
	const key = "STATUM_TEST_GATE_VAR"
	t.Cleanup(func() { os.Unsetenv(key) })

	ok, err := SetEnvVars{Vars: map[string]string{key: "1"}}.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", os.Getenv(key))

	ok, err = RemoveEnvVars{Names: []string{key}}.Finalize(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)
	_, present := os.LookupEnv(key)
	require.False(t, present)
}
