package atom

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileUnarchive extracts a gzip-compressed tarball at Origin into Dest.
// Plan semantics mirror original_source/lib/src/atoms/file/unarchive.rs
// exactly: if Dest exists and Force is false, nothing to do; if Dest exists
// and Force is true, ShouldRun tracks whether Origin still exists (so a
// missing archive doesn't re-trigger a failed re-extract); if Dest does not
// exist, ShouldRun likewise tracks Origin's existence, so a missing archive
// makes Plan report nothing to do and no error is raised.
type FileUnarchive struct {
	base
	Origin string
	Dest   string
	Force  bool
}

func (a *FileUnarchive) Plan(ctx context.Context) (Outcome, error) {
	_, destErr := os.Stat(a.Dest)
	destExists := destErr == nil
	_, originErr := os.Stat(a.Origin)
	originExists := originErr == nil

	if destExists && !a.Force {
		return Outcome{ShouldRun: false}, nil
	}
	return Outcome{ShouldRun: originExists, SideEffects: []string{fmt.Sprintf("unarchive %s -> %s", a.Origin, a.Dest)}}, nil
}

func (a *FileUnarchive) Execute(ctx context.Context, secret string) error {
	f, err := os.Open(a.Origin)
	if err != nil {
		a.setError(err)
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		a.setError(err)
		return err
	}
	defer gz.Close()

	if err := os.MkdirAll(a.Dest, 0o755); err != nil {
		a.setError(err)
		return err
	}

	tr := tar.NewReader(gz)
	count := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			a.setError(err)
			return err
		}

		target := filepath.Join(a.Dest, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				a.setError(err)
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				a.setError(err)
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
			if err != nil {
				a.setError(err)
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				a.setError(err)
				return err
			}
			out.Close()
			count++
		}
	}

	a.setOutput(fmt.Sprintf("extracted %d files to %s", count, a.Dest))
	return nil
}
