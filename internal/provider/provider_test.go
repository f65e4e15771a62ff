package provider

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryIncludesAllThirteenProviders(t *testing.T) {
	t.Parallel()

	reg := Default()
	for _, name := range []string{
		"apt", "bsdpkg", "dnf", "homebrew", "pkgin", "paru", "yay",
		"macports", "luarocks", "snapcraft", "winget", "xbps", "zypper",
	} {
		_, ok := reg[name]
		require.Truef(t, ok, "expected provider %q in default registry", name)
	}
}

func TestAptitudeInstallStepsShapeArgv(t *testing.T) {
	t.Parallel()

	steps := NewAptitude().InstallSteps([]string{"git", "curl"})
	require.Len(t, steps, 1)
	require.Equal(t, "apt-get", steps[0].Command)
	require.Equal(t, []string{"install", "-y", "git", "curl"}, steps[0].Args)
	require.True(t, steps[0].Privileged)
}

func TestHomebrewIsNotPrivileged(t *testing.T) {
	t.Parallel()
	require.False(t, NewHomebrew().Privileged())
}

func TestInstallStepsEmptyForNoPackages(t *testing.T) {
	t.Parallel()
	require.Empty(t, NewDnf().InstallSteps(nil))
}

func TestForOSPicksPlatformDefault(t *testing.T) {
	t.Parallel()
	require.Equal(t, "homebrew", ForOS("darwin"))
	require.Equal(t, "winget", ForOS("windows"))
	require.Equal(t, "apt", ForOS("linux"))
}
