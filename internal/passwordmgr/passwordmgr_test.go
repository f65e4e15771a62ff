package passwordmgr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultsProviderToSudo(t *testing.T) {
	t.Parallel()

	m := New("")
	require.Equal(t, "sudo", m.provider)
}

func TestZeroClearsSecretAndPromptedFlag(t *testing.T) {
	t.Parallel()

	m := New("sudo")
	m.secret = []byte("hunter2")
	m.prompted = true

	m.Zero()

	require.Empty(t, m.Secret())
	require.False(t, m.prompted)
}

func TestPromptRejectsNonTerminal(t *testing.T) {
	t.Parallel()

	m := New("sudo")
	// fd -1 is never a terminal.
	err := m.Prompt(nil, -1, "password: ")
	require.Error(t, err)
}
