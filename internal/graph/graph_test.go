package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudhex/statum/internal/action"
	"github.com/cloudhex/statum/internal/manifest"
)

func TestNewBuildsEdgesFromDepends(t *testing.T) {
	t.Parallel()

	a := &manifest.Manifest{Name: "a", Depends: []string{"b"}}
	b := &manifest.Manifest{Name: "b"}

	g, err := New([]*manifest.Manifest{a, b})
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, names(order))
}

func TestNewIgnoresUnknownDependencyNames(t *testing.T) {
	t.Parallel()

	a := &manifest.Manifest{Name: "a", Depends: []string{"ghost"}}
	g, err := New([]*manifest.Manifest{a})
	require.NoError(t, err)
	require.Nil(t, g.Barrier("a"))
}

func TestNewSerializesPackageTouchingManifestsAfterTheFirst(t *testing.T) {
	t.Parallel()

	first := &manifest.Manifest{Name: "first", Actions: []*action.Action{{Kind: "package.install"}}}
	second := &manifest.Manifest{Name: "second", Actions: []*action.Action{{Kind: "package.install"}}}

	g, err := New([]*manifest.Manifest{first, second})
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, names(order))
}

func TestNewDetectsCycle(t *testing.T) {
	t.Parallel()

	a := &manifest.Manifest{Name: "a", Depends: []string{"b"}}
	b := &manifest.Manifest{Name: "b", Depends: []string{"a"}}

	_, err := New([]*manifest.Manifest{a, b})
	require.Error(t, err)
}

func TestSuccessorsReturnsDependents(t *testing.T) {
	t.Parallel()

	a := &manifest.Manifest{Name: "a", Depends: []string{"b"}}
	b := &manifest.Manifest{Name: "b"}

	g, err := New([]*manifest.Manifest{a, b})
	require.NoError(t, err)

	succ := g.Successors("b")
	require.Len(t, succ, 1)
	require.Equal(t, "a", succ[0].Name)
}

func names(manifests []*manifest.Manifest) []string {
	out := make([]string, len(manifests))
	for i, m := range manifests {
		out[i] = m.Name
	}
	return out
}
