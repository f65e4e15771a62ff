// Package provider implements the PackageProvider table package.install and
// package.repository actions lower through. Each provider reports whether
// its package manager is available here and which of the requested packages
// are not yet installed, and builds the install and add-repository argv.
// Providers have no bootstrap steps: a missing package manager is not
// installed by statum. Grounded
// on the teacher's apt-only internal/plugins/package/package.go, generalized
// into a table the way spec.md §4.4 describes.
package provider

import (
	"context"

	"github.com/cloudhex/statum/internal/execrunner"
)

// Provider is one package manager's argument conventions and privilege
// requirement.
type Provider interface {
	// Name identifies the provider (e.g. "apt", "dnf", "homebrew").
	Name() string
	// Available reports whether this provider's binary exists on PATH.
	Available(ctx context.Context) bool
	// Privileged reports whether Install/AddRepository need elevation.
	Privileged() bool
	// Missing filters packages down to those not yet installed.
	Missing(ctx context.Context, packages []string) ([]string, error)
	// InstallSteps returns the Exec specs that install packages.
	InstallSteps(packages []string) []execrunner.Spec
	// AddRepositorySteps returns the Exec specs that add a repository.
	AddRepositorySteps(repo string) []execrunner.Spec
}

// Registry maps provider name to implementation.
type Registry map[string]Provider

// Default builds the registry of every provider statum ships, keyed by
// name, matching spec.md §4.4's list: Aptitude, BsdPkg, Dnf, Homebrew,
// Pkgin, Paru/Yay, Macports, LuaRocks, Snapcraft, Winget, Xbps, Zypper.
func Default() Registry {
	reg := Registry{}
	for _, p := range []Provider{
		NewAptitude(),
		NewBsdPkg(),
		NewDnf(),
		NewHomebrew(),
		NewPkgin(),
		NewParu(),
		NewYay(),
		NewMacports(),
		NewLuaRocks(),
		NewSnapcraft(),
		NewWinget(),
		NewXbps(),
		NewZypper(),
	} {
		reg[p.Name()] = p
	}
	return reg
}

// ForOS returns a reasonable default provider name for the given GOOS, used
// when a manifest does not set `provider:` explicitly.
func ForOS(goos string) string {
	switch goos {
	case "darwin":
		return "homebrew"
	case "windows":
		return "winget"
	case "freebsd", "netbsd", "openbsd":
		return "bsdpkg"
	default:
		return "apt"
	}
}
