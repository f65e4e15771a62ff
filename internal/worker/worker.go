// Package worker runs a Graph's manifests concurrently: one goroutine per
// manifest, coordinated by each manifest's DependencyBarrier, with package
// actions serialized behind a process-wide mutex. Grounded on the teacher's
// internal/engine/executor.go level-parallel execution (goroutines +
// sync.WaitGroup), generalized from step-level to manifest-level, and on
// original_source/app/src/commands/apply.rs's worker-spawn/barrier-signal
// loop.
package worker

import (
	"context"
	"sort"
	"sync"

	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/graph"
	"github.com/cloudhex/statum/internal/manifest"
	statumerrors "github.com/cloudhex/statum/pkg/errors"
)

// Options configures a Pool run.
type Options struct {
	DryRun      bool
	LabelFilter string
	Secret      string
}

// Result is one manifest's outcome, returned by Run for every manifest in
// the graph.
type Result struct {
	ManifestName string
	Err          error
}

// packageKinds are the Action kinds serialized by the package mutex.
var packageKinds = map[string]bool{
	"package.install":    true,
	"package.repository": true,
}

// Pool runs every manifest in g concurrently, respecting dependency
// barriers and the package mutex.
type Pool struct {
	packageMutex sync.Mutex
}

// NewPool constructs an empty Pool. A Pool's package mutex is shared across
// every manifest Run executes, so one Pool should be used for one
// `statum apply` invocation.
func NewPool() *Pool {
	return &Pool{}
}

// Run spawns one worker per manifest in g, waits for them all, and returns
// one Result per manifest, sorted by ManifestName.
func (p *Pool) Run(ctx context.Context, g *graph.Graph, opts Options, c contexts.Contexts) []Result {
	manifests := g.Manifests()

	results := make(chan Result, len(manifests))
	var wg sync.WaitGroup

	for _, m := range manifests {
		wg.Add(1)
		go func(m *manifest.Manifest) {
			defer wg.Done()
			results <- p.runOne(ctx, g, m, opts, c)
		}(m)
	}

	wg.Wait()
	close(results)

	out := make([]Result, 0, len(manifests))
	for r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ManifestName < out[j].ManifestName })
	return out
}

func (p *Pool) runOne(ctx context.Context, g *graph.Graph, m *manifest.Manifest, opts Options, c contexts.Contexts) Result {
	ok := true
	if barrier := g.Barrier(m.Name); barrier != nil {
		ok = barrier.Wait(true)
	}

	var result Result
	if !ok {
		result = Result{ManifestName: m.Name, Err: statumerrors.NewDependencyFailedError(m.Name, firstFailedDependency(g, m))}
		m.State = manifest.StateFailed
		m.Err = result.Err
	} else {
		result = Result{ManifestName: m.Name, Err: p.execute(ctx, m, opts, c)}
	}

	for _, succ := range g.Successors(m.Name) {
		if barrier := g.Barrier(succ.Name); barrier != nil {
			barrier.Wait(result.Err == nil)
		}
	}

	return result
}

func (p *Pool) execute(ctx context.Context, m *manifest.Manifest, opts Options, c contexts.Contexts) error {
	if requiresPackageMutex(m) {
		p.packageMutex.Lock()
		defer p.packageMutex.Unlock()
	}

	return m.Execute(ctx, manifest.Options{
		DryRun:      opts.DryRun,
		LabelFilter: opts.LabelFilter,
		Secret:      opts.Secret,
	}, c)
}

func requiresPackageMutex(m *manifest.Manifest) bool {
	for _, a := range m.Actions {
		if packageKinds[a.Kind] {
			return true
		}
	}
	return false
}

// firstFailedDependency names the first of m's declared dependencies that
// ended in StateFailed, or "" if none did. It is called only after m's
// barrier has released, so every dependency has already set its State.
func firstFailedDependency(g *graph.Graph, m *manifest.Manifest) string {
	for _, dep := range m.Depends {
		for _, other := range g.Manifests() {
			if other.Name == dep && other.State == manifest.StateFailed {
				return dep
			}
		}
	}
	return ""
}
