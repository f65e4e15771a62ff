package atom

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strconv"

	statumerrors "github.com/cloudhex/statum/pkg/errors"
)

// FileCreate ensures an empty file exists at Path. It does not create
// parent directories; lowerings put a DirCreate step first. Grounded on the teacher's symlink plugin's
// Check/Apply idempotence pattern (internal/plugins/symlink/symlink.go):
// Plan stats the target, Execute only runs when the stat says so.
type FileCreate struct {
	base
	Path string
	Mode os.FileMode
}

func (a *FileCreate) Plan(ctx context.Context) (Outcome, error) {
	if _, err := os.Stat(a.Path); err == nil {
		return Outcome{ShouldRun: false}, nil
	} else if !os.IsNotExist(err) {
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, err)
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("create file %s", a.Path)}}, nil
}

func (a *FileCreate) Execute(ctx context.Context, secret string) error {
	mode := a.Mode
	if mode == 0 {
		mode = 0o644
	}
	f, err := os.OpenFile(a.Path, os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		a.setError(err)
		return err
	}
	defer f.Close()
	a.setOutput(fmt.Sprintf("created %s", a.Path))
	return nil
}

// FileSetContents ensures Path contains Contents exactly. Idempotence is
// byte comparison against the existing file, matching the teacher's
// sha256-based Check() in internal/plugins/copy/copy.go and
// internal/plugins/template/template.go generalized to arbitrary content.
type FileSetContents struct {
	base
	Path     string
	Contents []byte
	Mode     os.FileMode
}

func (a *FileSetContents) Plan(ctx context.Context) (Outcome, error) {
	existing, err := os.ReadFile(a.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("write %s (new file)", a.Path)}}, nil
		}
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, err)
	}
	if string(existing) == string(a.Contents) {
		return Outcome{ShouldRun: false}, nil
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("update contents of %s", a.Path)}}, nil
}

func (a *FileSetContents) Execute(ctx context.Context, secret string) error {
	mode := a.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(a.Path, a.Contents, mode); err != nil {
		a.setError(err)
		return err
	}
	a.setOutput(fmt.Sprintf("wrote %d bytes to %s", len(a.Contents), a.Path))
	return nil
}

// FileChmod ensures Path has the given permission bits.
type FileChmod struct {
	base
	Path string
	Mode os.FileMode
}

// permBits masks to the full setuid/setgid/sticky + rwx range (0o7777), not
// just os.FileMode.Perm()'s 0o777: a chmod that only changes the special
// bits (e.g. 4755 vs 0755) must still be detected as drift.
func permBits(mode os.FileMode) os.FileMode {
	return mode & (os.ModeSetuid | os.ModeSetgid | os.ModeSticky | os.ModePerm)
}

func (a *FileChmod) Plan(ctx context.Context) (Outcome, error) {
	info, err := os.Stat(a.Path)
	if err != nil {
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, err)
	}
	if permBits(info.Mode()) == permBits(a.Mode) {
		return Outcome{ShouldRun: false}, nil
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("chmod %s to %o", a.Path, permBits(a.Mode))}}, nil
}

func (a *FileChmod) Execute(ctx context.Context, secret string) error {
	if err := os.Chmod(a.Path, a.Mode); err != nil {
		a.setError(err)
		return err
	}
	a.setOutput(fmt.Sprintf("chmod %s %o", a.Path, permBits(a.Mode)))
	return nil
}

// FileChown ensures Path is owned by the named user/group.
type FileChown struct {
	base
	Path  string
	User  string
	Group string
}

func (a *FileChown) Plan(ctx context.Context) (Outcome, error) {
	info, err := os.Stat(a.Path)
	if err != nil {
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, err)
	}
	uid, gid, err := a.resolveIDs()
	if err != nil {
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, err)
	}
	currentUID, currentGID, ok := statOwnership(info)
	if ok && currentUID == uid && currentGID == gid {
		return Outcome{ShouldRun: false}, nil
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("chown %s to %s:%s", a.Path, a.User, a.Group)}}, nil
}

func (a *FileChown) Execute(ctx context.Context, secret string) error {
	uid, gid, err := a.resolveIDs()
	if err != nil {
		a.setError(err)
		return err
	}
	if err := os.Chown(a.Path, uid, gid); err != nil {
		a.setError(err)
		return err
	}
	a.setOutput(fmt.Sprintf("chown %s %s:%s", a.Path, a.User, a.Group))
	return nil
}

func (a *FileChown) resolveIDs() (int, int, error) {
	u, err := user.Lookup(a.User)
	if err != nil {
		return 0, 0, err
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, err
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return 0, 0, err
	}
	if a.Group != "" {
		g, err := user.LookupGroup(a.Group)
		if err != nil {
			return 0, 0, err
		}
		gid, err = strconv.Atoi(g.Gid)
		if err != nil {
			return 0, 0, err
		}
	}
	return uid, gid, nil
}

// FileLink ensures Path is a symlink pointing at Target. Grounded directly
// on the teacher's internal/plugins/symlink/symlink.go no-clobber check:
// an existing symlink to the right target is left alone, a symlink to
// another target is relinked, and a non-symlink at Path is refused unless
// Force is set (Plan reports ShouldRun=false and records the reason in
// ErrorMessage, without returning an error).
type FileLink struct {
	base
	Path   string
	Target string
	Force  bool
}

func (a *FileLink) Plan(ctx context.Context) (Outcome, error) {
	current, err := os.Readlink(a.Path)
	if err == nil {
		if current == a.Target {
			return Outcome{ShouldRun: false}, nil
		}
		return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("relink %s -> %s", a.Path, a.Target)}}, nil
	}
	if _, statErr := os.Lstat(a.Path); statErr == nil && !a.Force {
		// Path exists but is not a symlink: refuse to clobber a real file.
		// Not a Plan error — a logged warning and should_run=false.
		a.setError(fmt.Errorf("%s exists and is not a symlink, refusing to overwrite", a.Path))
		return Outcome{ShouldRun: false}, nil
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("link %s -> %s", a.Path, a.Target)}}, nil
}

func (a *FileLink) Execute(ctx context.Context, secret string) error {
	if a.Force {
		_ = os.Remove(a.Path)
	} else if _, err := os.Lstat(a.Path); err == nil {
		if err := os.Remove(a.Path); err != nil {
			a.setError(err)
			return err
		}
	}
	if err := os.Symlink(a.Target, a.Path); err != nil {
		a.setError(err)
		return err
	}
	a.setOutput(fmt.Sprintf("linked %s -> %s", a.Path, a.Target))
	return nil
}

// FileRemove ensures Path does not exist.
type FileRemove struct {
	base
	Path string
}

func (a *FileRemove) Plan(ctx context.Context) (Outcome, error) {
	if _, err := os.Lstat(a.Path); os.IsNotExist(err) {
		return Outcome{ShouldRun: false}, nil
	} else if err != nil {
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, err)
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("remove %s", a.Path)}}, nil
}

func (a *FileRemove) Execute(ctx context.Context, secret string) error {
	if err := os.RemoveAll(a.Path); err != nil {
		a.setError(err)
		return err
	}
	a.setOutput(fmt.Sprintf("removed %s", a.Path))
	return nil
}

// DirCreate ensures Path exists as a directory, including parents.
type DirCreate struct {
	base
	Path string
	Mode os.FileMode
}

func (a *DirCreate) Plan(ctx context.Context) (Outcome, error) {
	info, err := os.Stat(a.Path)
	if err == nil {
		if info.IsDir() {
			return Outcome{ShouldRun: false}, nil
		}
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, fmt.Errorf("%s exists and is not a directory", a.Path))
	}
	if !os.IsNotExist(err) {
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, err)
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("mkdir -p %s", a.Path)}}, nil
}

func (a *DirCreate) Execute(ctx context.Context, secret string) error {
	mode := a.Mode
	if mode == 0 {
		mode = 0o755
	}
	if err := os.MkdirAll(a.Path, mode); err != nil {
		a.setError(err)
		return err
	}
	a.setOutput(fmt.Sprintf("created directory %s", a.Path))
	return nil
}

// DirRemove removes Path when it is an empty directory. A missing path, a
// non-directory, or a non-empty directory is left alone (ShouldRun=false).
type DirRemove struct {
	base
	Path string
}

func (a *DirRemove) Plan(ctx context.Context) (Outcome, error) {
	info, err := os.Stat(a.Path)
	if os.IsNotExist(err) {
		return Outcome{ShouldRun: false}, nil
	}
	if err != nil {
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, err)
	}
	if !info.IsDir() {
		return Outcome{ShouldRun: false}, nil
	}
	entries, err := os.ReadDir(a.Path)
	if err != nil {
		return Outcome{}, statumerrors.NewAtomPlanError(a.Path, err)
	}
	if len(entries) != 0 {
		return Outcome{ShouldRun: false}, nil
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("rmdir %s", a.Path)}}, nil
}

func (a *DirRemove) Execute(ctx context.Context, secret string) error {
	if err := os.Remove(a.Path); err != nil {
		a.setError(err)
		return err
	}
	a.setOutput(fmt.Sprintf("removed directory %s", a.Path))
	return nil
}
