package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudhex/statum/internal/action"
)

func TestDeriveNameStripsMainAndExtension(t *testing.T) {
	t.Parallel()

	require.Equal(t, "foo.bar", deriveName("foo/bar/main.yaml"))
	require.Equal(t, "foo.bar", deriveName("foo/bar.yaml"))
	require.Equal(t, "foo.bar.baz", deriveName("foo/bar/baz.yaml"))
}

func TestLoadDecodesSimpleManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dotfiles.yaml"), `
name: dotfiles
labels: [base]
actions:
  - action: file.link
    from: /src/bashrc
    to: /dest/bashrc
`)

	manifests, warnings, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, manifests, 1)
	require.Equal(t, "dotfiles", manifests[0].Name)
	require.Len(t, manifests[0].Actions, 1)
	require.Equal(t, "file.link", manifests[0].Actions[0].Kind)

	body, ok := manifests[0].Actions[0].Body.(action.FileLink)
	require.True(t, ok)
	require.Equal(t, "/dest/bashrc", body.To)
}

func TestLoadSkipsFilesDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "files"), 0o755))
	writeFile(t, filepath.Join(dir, "files", "notamanifest.yaml"), "actions: []")
	writeFile(t, filepath.Join(dir, "real.yaml"), "actions: []")

	manifests, warnings, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, manifests, 1)
}

func TestLoadReportsWarningForMalformedYAMLWithoutFailingOthers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.yaml"), "actions: [[[")
	writeFile(t, filepath.Join(dir, "ok.yaml"), "actions: []")

	manifests, warnings, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Len(t, manifests, 1)
}

func TestLoadRejectsUnknownActionKind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "m.yaml"), `
actions:
  - action: does.not.exist
`)

	_, warnings, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
