package atom

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitClone ensures a git repository is checked out at Dest at the given
// Ref (branch, tag, or commit; empty means the remote's default branch).
// Grounded on the teacher's internal/plugins/repo/repo.go, which uses the
// same go-git/v5 APIs (git.PlainOpen, remote/HEAD inspection) to decide
// whether a checkout is already current.
type GitClone struct {
	base
	URL  string
	Dest string
	Ref  string
}

func (a *GitClone) Plan(ctx context.Context) (Outcome, error) {
	repo, err := git.PlainOpen(a.Dest)
	if err != nil {
		return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("clone %s -> %s", a.URL, a.Dest)}}, nil
	}

	if a.Ref == "" {
		return Outcome{ShouldRun: false}, nil
	}

	head, err := repo.Head()
	if err != nil {
		return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("checkout %s in %s", a.Ref, a.Dest)}}, nil
	}
	if head.Name().Short() == a.Ref || head.Hash().String() == a.Ref {
		return Outcome{ShouldRun: false}, nil
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("checkout %s in %s", a.Ref, a.Dest)}}, nil
}

func (a *GitClone) Execute(ctx context.Context, secret string) error {
	repo, err := git.PlainOpen(a.Dest)
	if err != nil {
		repo, err = git.PlainCloneContext(ctx, a.Dest, false, &git.CloneOptions{
			URL:      a.URL,
			Progress: nil,
		})
		if err != nil {
			a.setError(err)
			return err
		}
	}

	if a.Ref == "" {
		a.setOutput(fmt.Sprintf("cloned %s into %s", a.URL, a.Dest))
		return nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		a.setError(err)
		return err
	}

	checkoutOpts := &git.CheckoutOptions{}
	if hash := plumbing.NewHash(a.Ref); !hash.IsZero() {
		checkoutOpts.Hash = hash
	} else {
		checkoutOpts.Branch = plumbing.NewBranchReferenceName(a.Ref)
	}

	if err := wt.Checkout(checkoutOpts); err != nil {
		a.setError(err)
		return err
	}

	a.setOutput(fmt.Sprintf("checked out %s in %s", a.Ref, a.Dest))
	return nil
}
