package action

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudhex/statum/internal/atom"
	"github.com/cloudhex/statum/internal/contexts"
)

func TestFileCopyLoadsAndRendersTemplate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "files"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "files", "bashrc.tmpl"), []byte("shell={{ .variables.shell }}"), 0o644))

	dest := filepath.Join(t.TempDir(), "bashrc")
	fc := FileCopy{From: "bashrc.tmpl", To: dest, Template: true}
	ctx := contexts.New(map[string]map[string]contexts.Value{"variables": {"shell": "fish"}})

	steps, err := fc.Lower(ManifestInfo{Name: "dotfiles", RootDir: root}, ctx)
	require.NoError(t, err)
	require.Len(t, steps, 4)

	setContents, ok := steps[3].Atom.(*atom.FileSetContents)
	require.True(t, ok)
	require.Equal(t, "shell=fish", string(setContents.Contents))
}

func TestFileCopyUsesDecryptWhenPassphraseSet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fc := FileCopy{From: "secret.age", To: "/tmp/secret", Passphrase: "hunter2"}

	steps, err := fc.Lower(ManifestInfo{Name: "m", RootDir: root}, contexts.New(nil))
	require.NoError(t, err)
	require.Len(t, steps, 4)

	decrypt, ok := steps[3].Atom.(*atom.FileDecrypt)
	require.True(t, ok)
	require.Equal(t, "hunter2", decrypt.Passphrase)
}

func TestFileLinkLowersToDirCreateAndLink(t *testing.T) {
	t.Parallel()

	steps, err := FileLink{From: "/src", To: "/dest/link"}.Lower(ManifestInfo{Name: "m"}, contexts.New(nil))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	require.IsType(t, &atom.DirCreate{}, steps[0].Atom)
	require.IsType(t, &atom.FileLink{}, steps[1].Atom)
}
