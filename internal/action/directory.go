package action

import (
	"fmt"
	"runtime"

	"github.com/cloudhex/statum/internal/atom"
	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/step"
)

// DirectoryCopy lowers to platform-specific Exec steps per spec.md §4.4:
// `[Exec(mkdir -p to), Exec(cp -r from to)]` on POSIX,
// `[Exec(Xcopy /E /I from to)]` on Windows.
type DirectoryCopy struct {
	From string
	To   string
}

func (d DirectoryCopy) Summarize() string { return fmt.Sprintf("copy directory %s -> %s", d.From, d.To) }
func (d DirectoryCopy) Privileged() bool  { return false }

func (d DirectoryCopy) Lower(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	if runtime.GOOS == "windows" {
		return []*step.Step{
			{ID: mi.Name + ":xcopy", Atom: &atom.Exec{Command: "Xcopy", Args: []string{"/E", "/I", d.From, d.To}}},
		}, nil
	}
	return []*step.Step{
		{ID: mi.Name + ":mkdir", Atom: &atom.Exec{Command: "mkdir", Args: []string{"-p", d.To}}},
		{ID: mi.Name + ":cp", Atom: &atom.Exec{Command: "cp", Args: []string{"-r", d.From, d.To}}},
	}, nil
}

// DirectoryRemove lowers to a single DirRemove atom, which itself refuses
// to remove a non-empty directory (spec.md §8 boundary behavior).
type DirectoryRemove struct {
	Path string
}

func (d DirectoryRemove) Summarize() string { return fmt.Sprintf("remove directory %s", d.Path) }
func (d DirectoryRemove) Privileged() bool  { return false }

func (d DirectoryRemove) Lower(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	return []*step.Step{
		{ID: mi.Name + ":dirremove", Atom: &atom.DirRemove{Path: d.Path}},
	}, nil
}
