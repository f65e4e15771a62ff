package action

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudhex/statum/internal/atom"
	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/render"
	"github.com/cloudhex/statum/internal/step"
)

// FileCopy lowers to `[DirCreate(parent(to)), FileCreate(to),
// FileChmod(to, mode), FileSetContents(to, rendered) | FileDecrypt]`
// per spec.md §4.4, loading source content from
// `manifest.root_dir/files/<from>`.
type FileCopy struct {
	From       string
	To         string
	Mode       os.FileMode
	Template   bool
	Passphrase string
	Owner      string
	Group      string
}

func (f FileCopy) Summarize() string { return fmt.Sprintf("copy %s -> %s", f.From, f.To) }
func (f FileCopy) Privileged() bool  { return false }

func (f FileCopy) Lower(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	mode := f.Mode
	if mode == 0 {
		mode = 0o644
	}

	steps := []*step.Step{
		{ID: mi.Name + ":dircreate", Atom: &atom.DirCreate{Path: filepath.Dir(f.To), Mode: 0o755}},
		{ID: mi.Name + ":filecreate", Atom: &atom.FileCreate{Path: f.To, Mode: mode}},
		{ID: mi.Name + ":filechmod", Atom: &atom.FileChmod{Path: f.To, Mode: mode}},
	}

	if f.Passphrase != "" {
		source := f.sourcePath(mi)
		steps = append(steps, &step.Step{
			ID:   mi.Name + ":filedecrypt",
			Atom: &atom.FileDecrypt{Source: source, Dest: f.To, Passphrase: f.Passphrase},
		})
	} else {
		contents, err := f.loadContents(mi, c)
		if err != nil {
			return nil, err
		}
		steps = append(steps, &step.Step{
			ID:   mi.Name + ":filesetcontents",
			Atom: &atom.FileSetContents{Path: f.To, Contents: contents, Mode: mode},
		})
	}

	if f.Owner != "" {
		steps = append(steps, &step.Step{
			ID:   mi.Name + ":filechown",
			Atom: &atom.FileChown{Path: f.To, User: f.Owner, Group: f.Group},
		})
	}

	return steps, nil
}

func (f FileCopy) sourcePath(mi ManifestInfo) string {
	return filepath.Join(mi.RootDir, "files", f.From)
}

func (f FileCopy) loadContents(mi ManifestInfo, c contexts.Contexts) ([]byte, error) {
	raw, err := os.ReadFile(f.sourcePath(mi))
	if err != nil {
		return nil, err
	}
	if !f.Template {
		return raw, nil
	}
	return render.Render(f.From, raw, c)
}

// FileLink lowers to `[DirCreate(parent), FileLink(from, to)]`.
type FileLink struct {
	From  string
	To    string
	Force bool
}

func (f FileLink) Summarize() string { return fmt.Sprintf("link %s -> %s", f.From, f.To) }
func (f FileLink) Privileged() bool  { return false }

func (f FileLink) Lower(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	return []*step.Step{
		{ID: mi.Name + ":dircreate", Atom: &atom.DirCreate{Path: filepath.Dir(f.To), Mode: 0o755}},
		{ID: mi.Name + ":filelink", Atom: &atom.FileLink{Path: f.To, Target: f.From, Force: f.Force}},
	}, nil
}

// FileDownload lowers to `[DirCreate(parent(to)), HttpDownload(url, to),
// FileChmod(to, mode)]`.
type FileDownload struct {
	URL  string
	To   string
	Mode os.FileMode
}

func (f FileDownload) Summarize() string { return fmt.Sprintf("download %s -> %s", f.URL, f.To) }
func (f FileDownload) Privileged() bool  { return false }

func (f FileDownload) Lower(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	mode := f.Mode
	if mode == 0 {
		mode = 0o644
	}
	return []*step.Step{
		{ID: mi.Name + ":dircreate", Atom: &atom.DirCreate{Path: filepath.Dir(f.To), Mode: 0o755}},
		{ID: mi.Name + ":httpdownload", Atom: &atom.HttpDownload{URL: f.URL, Dest: f.To, Mode: mode}},
		{ID: mi.Name + ":filechmod", Atom: &atom.FileChmod{Path: f.To, Mode: mode}},
	}, nil
}
