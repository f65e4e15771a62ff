package provider

import (
	"context"
	"os/exec"
	"strings"

	"github.com/cloudhex/statum/internal/execrunner"
)

// execProvider is a table-driven Provider: almost every package manager
// statum supports differs only in binary name, query syntax, and install
// argv shape, so one struct parameterized by those fields replaces twelve
// near-identical hand-written types (per spec.md §9's REDESIGN FLAGS: a Go
// sum-type/table replaces the original's trait-object-per-provider design).
type execProvider struct {
	name          string
	binary        string
	privileged    bool
	queryInstalled func(ctx context.Context, pkg string) bool
	installArgs   func(packages []string) []string
	repoArgs      func(repo string) []string
}

func (p execProvider) Name() string { return p.name }

func (p execProvider) Available(ctx context.Context) bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

func (p execProvider) Privileged() bool { return p.privileged }

func (p execProvider) Missing(ctx context.Context, packages []string) ([]string, error) {
	if p.queryInstalled == nil {
		return packages, nil
	}
	var missing []string
	for _, pkg := range packages {
		if !p.queryInstalled(ctx, pkg) {
			missing = append(missing, pkg)
		}
	}
	return missing, nil
}

func (p execProvider) InstallSteps(packages []string) []execrunner.Spec {
	if len(packages) == 0 {
		return nil
	}
	return []execrunner.Spec{{
		Command:    p.binary,
		Args:       p.installArgs(packages),
		Privileged: p.privileged,
	}}
}

func (p execProvider) AddRepositorySteps(repo string) []execrunner.Spec {
	if p.repoArgs == nil {
		return nil
	}
	return []execrunner.Spec{{
		Command:    p.binary,
		Args:       p.repoArgs(repo),
		Privileged: p.privileged,
	}}
}

func dpkgQuery(ctx context.Context, pkg string) bool {
	result, err := execrunner.Run(ctx, execrunner.Spec{Command: "dpkg", Args: []string{"-s", pkg}})
	return err == nil && result.ExitCode == 0
}

func rpmQuery(ctx context.Context, pkg string) bool {
	result, err := execrunner.Run(ctx, execrunner.Spec{Command: "rpm", Args: []string{"-q", pkg}})
	return err == nil && result.ExitCode == 0
}

func pacmanQuery(ctx context.Context, pkg string) bool {
	result, err := execrunner.Run(ctx, execrunner.Spec{Command: "pacman", Args: []string{"-Q", pkg}})
	return err == nil && result.ExitCode == 0
}

func brewQuery(ctx context.Context, pkg string) bool {
	result, err := execrunner.Run(ctx, execrunner.Spec{Command: "brew", Args: []string{"list", pkg}})
	return err == nil && result.ExitCode == 0
}

func prefixArgs(prefix []string, packages []string) []string {
	return append(append([]string{}, prefix...), packages...)
}

// NewAptitude implements Debian/Ubuntu's apt-get, generalized from the
// teacher's internal/plugins/package/package.go (its apt-only package
// plugin).
func NewAptitude() Provider {
	return execProvider{
		name:           "apt",
		binary:         "apt-get",
		privileged:     true,
		queryInstalled: dpkgQuery,
		installArgs:    func(pkgs []string) []string { return prefixArgs([]string{"install", "-y"}, pkgs) },
		repoArgs:       func(repo string) []string { return []string{"update"} }, // apt-get has no add-repo verb: this only refreshes the package index and ignores repo; the repository itself is not added
	}
}

func NewBsdPkg() Provider {
	return execProvider{
		name:        "bsdpkg",
		binary:      "pkg",
		privileged:  true,
		installArgs: func(pkgs []string) []string { return prefixArgs([]string{"install", "-y"}, pkgs) },
	}
}

func NewDnf() Provider {
	return execProvider{
		name:           "dnf",
		binary:         "dnf",
		privileged:     true,
		queryInstalled: rpmQuery,
		installArgs:    func(pkgs []string) []string { return prefixArgs([]string{"install", "-y"}, pkgs) },
		repoArgs:       func(repo string) []string { return []string{"config-manager", "--add-repo", repo} },
	}
}

func NewHomebrew() Provider {
	return execProvider{
		name:           "homebrew",
		binary:         "brew",
		privileged:     false,
		queryInstalled: brewQuery,
		installArgs:    func(pkgs []string) []string { return prefixArgs([]string{"install"}, pkgs) },
		repoArgs:       func(repo string) []string { return []string{"tap", repo} },
	}
}

func NewPkgin() Provider {
	return execProvider{
		name:        "pkgin",
		binary:      "pkgin",
		privileged:  true,
		installArgs: func(pkgs []string) []string { return prefixArgs([]string{"-y", "install"}, pkgs) },
	}
}

func NewParu() Provider {
	return execProvider{
		name:           "paru",
		binary:         "paru",
		privileged:     false,
		queryInstalled: pacmanQuery,
		installArgs:    func(pkgs []string) []string { return prefixArgs([]string{"-S", "--noconfirm"}, pkgs) },
	}
}

func NewYay() Provider {
	return execProvider{
		name:           "yay",
		binary:         "yay",
		privileged:     false,
		queryInstalled: pacmanQuery,
		installArgs:    func(pkgs []string) []string { return prefixArgs([]string{"-S", "--noconfirm"}, pkgs) },
	}
}

func NewMacports() Provider {
	return execProvider{
		name:        "macports",
		binary:      "port",
		privileged:  true,
		installArgs: func(pkgs []string) []string { return prefixArgs([]string{"install"}, pkgs) },
	}
}

func NewLuaRocks() Provider {
	return execProvider{
		name:        "luarocks",
		binary:      "luarocks",
		privileged:  false,
		installArgs: func(pkgs []string) []string { return prefixArgs([]string{"install"}, pkgs) },
	}
}

func NewSnapcraft() Provider {
	return execProvider{
		name:        "snapcraft",
		binary:      "snap",
		privileged:  true,
		installArgs: func(pkgs []string) []string { return prefixArgs([]string{"install"}, pkgs) },
	}
}

func NewWinget() Provider {
	return execProvider{
		name:       "winget",
		binary:     "winget",
		privileged: false,
		installArgs: func(pkgs []string) []string {
			args := []string{"install", "-e", "--accept-source-agreements", "--accept-package-agreements"}
			return append(args, strings.Join(pkgs, ","))
		},
	}
}

func NewXbps() Provider {
	return execProvider{
		name:        "xbps",
		binary:      "xbps-install",
		privileged:  true,
		installArgs: func(pkgs []string) []string { return prefixArgs([]string{"-y"}, pkgs) },
	}
}

func NewZypper() Provider {
	return execProvider{
		name:           "zypper",
		binary:         "zypper",
		privileged:     true,
		queryInstalled: rpmQuery,
		installArgs:    func(pkgs []string) []string { return prefixArgs([]string{"install", "-y"}, pkgs) },
		repoArgs:       func(repo string) []string { return []string{"addrepo", repo} },
	}
}
