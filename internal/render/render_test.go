package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudhex/statum/internal/contexts"
)

func TestRenderSubstitutesVariables(t *testing.T) {
	t.Parallel()

	ctx := contexts.New(map[string]map[string]contexts.Value{
		"variables": {"shell": "zsh"},
	})

	out, err := Render("test", []byte("shell={{ .variables.shell }}"), ctx)
	require.NoError(t, err)
	require.Equal(t, "shell=zsh", string(out))
}

func TestRenderPropagatesParseError(t *testing.T) {
	t.Parallel()

	_, err := Render("test", []byte("{{ .broken"), contexts.New(nil))
	require.Error(t, err)
}
