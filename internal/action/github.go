package action

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/go-github/v27/github"

	"github.com/cloudhex/statum/internal/atom"
	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/step"
)

// BinaryGithub queries the GitHub releases API for owner/repo at Tag (or
// latest), scores each asset against the current OS/arch, and emits
// [HttpDownload, FileChmod(0o755)] for the best match. Grounded directly on
// original_source/lib/src/actions/binary/github.rs's octocrab usage;
// google/go-github/v27 is the Go analogue, sourced from the pack's
// distr1-distri repo where it is a real dependency.
type BinaryGithub struct {
	Repo string // "owner/repo"
	Tag  string // empty means latest
	Dir  string
	Name string

	// Client allows tests to inject a fake release lister; nil uses a
	// real github.Client against api.github.com.
	Client releaseLister
}

// releaseLister is the subset of *github.RepositoriesService BinaryGithub
// needs, narrow enough to fake in tests without a live network call.
type releaseLister interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error)
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, *github.Response, error)
}

func (b BinaryGithub) Summarize() string { return fmt.Sprintf("fetch github release %s", b.Repo) }
func (b BinaryGithub) Privileged() bool  { return false }

func (b BinaryGithub) Lower(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	owner, repo, err := splitOwnerRepo(b.Repo)
	if err != nil {
		return nil, err
	}

	client := b.Client
	if client == nil {
		client = github.NewClient(nil).Repositories
	}

	ctx := context.Background()
	var release *github.RepositoryRelease
	if b.Tag == "" {
		release, _, err = client.GetLatestRelease(ctx, owner, repo)
	} else {
		release, _, err = client.GetReleaseByTag(ctx, owner, repo, b.Tag)
	}
	if err != nil {
		return nil, err
	}

	asset := bestAsset(release.Assets, runtime.GOOS, runtime.GOARCH)
	if asset == nil {
		return nil, fmt.Errorf("no release asset of %s matched %s/%s", b.Repo, runtime.GOOS, runtime.GOARCH)
	}

	name := b.Name
	if name == "" {
		name = repo
	}
	dest := filepath.Join(b.Dir, name)

	return []*step.Step{
		{ID: mi.Name + ":httpdownload", Atom: &atom.HttpDownload{URL: asset.GetBrowserDownloadURL(), Dest: dest}},
		{ID: mi.Name + ":filechmod", Atom: &atom.FileChmod{Path: dest, Mode: 0o755}},
	}, nil
}

func splitOwnerRepo(spec string) (owner, repo string, err error) {
	parts := strings.SplitN(spec, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("binary.github repo must be \"owner/repo\", got %q", spec)
	}
	return parts[0], parts[1], nil
}

// bestAsset scores each asset by substring match against OS/arch tokens,
// the same heuristic as the original's Rust scoring (darwin/apple for
// macOS, arm/aarch for aarch64, 32 for 32-bit builds) and returns the
// highest-scoring asset, or nil if every asset scores zero.
func bestAsset(assets []github.ReleaseAsset, goos, goarch string) *github.ReleaseAsset {
	var best *github.ReleaseAsset
	bestScore := 0

	for i := range assets {
		score := scoreAsset(assets[i].GetName(), goos, goarch)
		if score > bestScore {
			bestScore = score
			best = &assets[i]
		}
	}
	return best
}

func scoreAsset(name, goos, goarch string) int {
	lower := strings.ToLower(name)
	score := 0

	osTerms := map[string][]string{
		"darwin":  {"darwin", "macos", "apple", "osx"},
		"linux":   {"linux"},
		"windows": {"windows", "win"},
	}
	for _, term := range osTerms[goos] {
		if strings.Contains(lower, term) {
			score += 2
		}
	}

	archTerms := map[string][]string{
		"amd64": {"amd64", "x86_64", "x64"},
		"arm64": {"arm64", "aarch64", "arm"},
		"386":   {"386", "x86", "32"},
	}
	for _, term := range archTerms[goarch] {
		if strings.Contains(lower, term) {
			score += 1
		}
	}

	return score
}
