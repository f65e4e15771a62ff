package condition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudhex/statum/internal/contexts"
)

func TestEvaluateTrueComparison(t *testing.T) {
	t.Parallel()

	ctx := contexts.New(map[string]map[string]contexts.Value{
		"os": {"name": "linux"},
	})

	ok, err := Evaluate(`os.name == "linux"`, ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvaluateFalseComparison(t *testing.T) {
	t.Parallel()

	ctx := contexts.New(map[string]map[string]contexts.Value{
		"os": {"name": "linux"},
	})

	ok, err := Evaluate(`os.name == "darwin"`, ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEvaluateBareLiteralFalse(t *testing.T) {
	t.Parallel()

	ok, err := Evaluate(`false`, contexts.New(nil))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEvaluateInvalidExpressionErrors(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(`os.name ===`, contexts.New(nil))
	require.Error(t, err)
}

func TestEvaluateVariantTreatsErrorAsFalse(t *testing.T) {
	t.Parallel()

	matched, err := EvaluateVariant(`not valid (((`, contexts.New(nil))
	require.Error(t, err)
	require.False(t, matched)
}
