package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudhex/statum/internal/atom"
	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/execrunner"
	"github.com/cloudhex/statum/internal/provider"
)

type stubProvider struct {
	name    string
	missing []string
}

func (s stubProvider) Name() string                      { return s.name }
func (s stubProvider) Available(ctx context.Context) bool { return true }
func (s stubProvider) Privileged() bool                   { return true }
func (s stubProvider) Missing(ctx context.Context, packages []string) ([]string, error) {
	return s.missing, nil
}
func (s stubProvider) InstallSteps(packages []string) []execrunner.Spec {
	return []execrunner.Spec{{Command: "stub-install", Args: packages, Privileged: true}}
}
func (s stubProvider) AddRepositorySteps(repo string) []execrunner.Spec {
	return []execrunner.Spec{{Command: "stub-repo", Args: []string{repo}, Privileged: true}}
}

func TestPackageInstallLowersMissingPackagesOnly(t *testing.T) {
	reg := provider.Registry{"stub": stubProvider{name: "stub", missing: []string{"vim"}}}
	p := PackageInstall{Packages: []string{"vim", "git"}, Provider: "stub", Registry: reg}

	require.True(t, p.Privileged())

	steps, err := p.Lower(ManifestInfo{Name: "m"}, contexts.New(nil))
	require.NoError(t, err)
	require.Len(t, steps, 1)

	e := steps[0].Atom.(*atom.Exec)
	require.Equal(t, "stub-install", e.Command)
	require.Equal(t, []string{"vim"}, e.Args)
}

func TestPackageInstallEmptyWhenNothingMissing(t *testing.T) {
	reg := provider.Registry{"stub": stubProvider{name: "stub"}}
	p := PackageInstall{Packages: []string{"vim"}, Provider: "stub", Registry: reg}

	steps, err := p.Lower(ManifestInfo{Name: "m"}, contexts.New(nil))
	require.NoError(t, err)
	require.Empty(t, steps)
}

func TestPackageRepositoryLowersToProviderSteps(t *testing.T) {
	reg := provider.Registry{"stub": stubProvider{name: "stub"}}
	p := PackageRepository{Repository: "ppa:foo/bar", Provider: "stub", Registry: reg}

	steps, err := p.Lower(ManifestInfo{Name: "m"}, contexts.New(nil))
	require.NoError(t, err)
	require.Len(t, steps, 1)

	e := steps[0].Atom.(*atom.Exec)
	require.Equal(t, "stub-repo", e.Command)
	require.Equal(t, []string{"ppa:foo/bar"}, e.Args)
}
