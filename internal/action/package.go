package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudhex/statum/internal/atom"
	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/provider"
	"github.com/cloudhex/statum/internal/step"
)

// PackageInstall queries a PackageProvider for the packages not yet
// installed and emits provider-specific Exec steps for those. Package
// actions are unconditionally privileged per spec.md §4.4.
type PackageInstall struct {
	Packages []string
	Provider string // explicit provider name; empty means OS-detected default
	Registry provider.Registry
	GOOS     string
}

func (p PackageInstall) Summarize() string {
	return fmt.Sprintf("install packages: %s", strings.Join(p.Packages, ", "))
}
func (p PackageInstall) Privileged() bool { return true }

func (p PackageInstall) resolveProvider() (provider.Provider, error) {
	reg := p.Registry
	if reg == nil {
		reg = provider.Default()
	}
	name := p.Provider
	if name == "" {
		name = provider.ForOS(p.GOOS)
	}
	prov, ok := reg[name]
	if !ok {
		return nil, fmt.Errorf("unknown package provider %q", name)
	}
	return prov, nil
}

func (p PackageInstall) Lower(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	prov, err := p.resolveProvider()
	if err != nil {
		return nil, err
	}

	missing, err := prov.Missing(context.Background(), p.Packages)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return nil, nil
	}

	var steps []*step.Step
	for i, spec := range prov.InstallSteps(missing) {
		steps = append(steps, &step.Step{
			ID: fmt.Sprintf("%s:packageinstall:%d", mi.Name, i),
			Atom: &atom.Exec{
				Command:    spec.Command,
				Args:       spec.Args,
				Env:        spec.Env,
				Dir:        spec.Dir,
				Privileged: spec.Privileged,
				Provider:   spec.Provider,
			},
		})
	}
	return steps, nil
}

// PackageRepository adds a package repository via the chosen provider,
// serialized against package.install on the worker pool's package mutex
// (internal/worker), not here.
type PackageRepository struct {
	Repository string
	Provider   string
	Registry   provider.Registry
	GOOS       string
}

func (p PackageRepository) Summarize() string { return fmt.Sprintf("add repository %s", p.Repository) }
func (p PackageRepository) Privileged() bool  { return true }

func (p PackageRepository) Lower(mi ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	reg := p.Registry
	if reg == nil {
		reg = provider.Default()
	}
	name := p.Provider
	if name == "" {
		name = provider.ForOS(p.GOOS)
	}
	prov, ok := reg[name]
	if !ok {
		return nil, fmt.Errorf("unknown package provider %q", name)
	}

	var steps []*step.Step
	for i, spec := range prov.AddRepositorySteps(p.Repository) {
		steps = append(steps, &step.Step{
			ID: fmt.Sprintf("%s:packagerepository:%d", mi.Name, i),
			Atom: &atom.Exec{
				Command:    spec.Command,
				Args:       spec.Args,
				Privileged: spec.Privileged,
			},
		})
	}
	return steps, nil
}
