package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cloudhex/statum/internal/action"
	"github.com/cloudhex/statum/internal/atom"
	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/graph"
	"github.com/cloudhex/statum/internal/manifest"
	"github.com/cloudhex/statum/internal/step"
)

type stubLowerer struct{ steps []*step.Step }

func (s stubLowerer) Lower(mi action.ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	return s.steps, nil
}
func (s stubLowerer) Summarize() string { return "stub" }
func (s stubLowerer) Privileged() bool  { return false }

func TestPoolRunsAllManifestsAndReportsResults(t *testing.T) {
	t.Parallel()

	a := &manifest.Manifest{Name: "a"}
	b := &manifest.Manifest{Name: "b"}

	g, err := graph.New([]*manifest.Manifest{a, b})
	require.NoError(t, err)

	pool := NewPool()
	results := pool.Run(context.Background(), g, Options{}, contexts.New(nil))
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
}

func TestPoolPropagatesDependencyFailure(t *testing.T) {
	t.Parallel()

	var dependentRan int32
	var siblingRan int32

	failing := &manifest.Manifest{Name: "failing", Where: "not valid (((("}
	dependent := &manifest.Manifest{
		Name:    "dependent",
		Depends: []string{"failing"},
		Actions: []*action.Action{
			{Kind: "noop", Body: trackingLowerer{
				before: func() { atomic.AddInt32(&dependentRan, 1) },
				after:  func() {},
			}},
		},
	}
	sibling := &manifest.Manifest{
		Name: "sibling",
		Actions: []*action.Action{
			{Kind: "noop", Body: trackingLowerer{
				before: func() { atomic.AddInt32(&siblingRan, 1) },
				after:  func() {},
			}},
		},
	}

	g, err := graph.New([]*manifest.Manifest{failing, dependent, sibling})
	require.NoError(t, err)

	pool := NewPool()
	results := pool.Run(context.Background(), g, Options{}, contexts.New(nil))

	var failingResult, dependentResult, siblingResult Result
	for _, r := range results {
		switch r.ManifestName {
		case "failing":
			failingResult = r
		case "dependent":
			dependentResult = r
		case "sibling":
			siblingResult = r
		}
	}

	require.Error(t, failingResult.Err)
	require.Error(t, dependentResult.Err)
	require.NoError(t, siblingResult.Err)

	// The dependent must never have executed its actions: the barrier must
	// block the dependent's own arrival until failing's false signal has
	// also arrived, not release as soon as the dependent calls Wait(true).
	require.Equal(t, int32(0), atomic.LoadInt32(&dependentRan))
	// A manifest with no dependency on the failing one is unaffected.
	require.Equal(t, int32(1), atomic.LoadInt32(&siblingRan))
}

func TestPoolSerializesPackageActions(t *testing.T) {
	t.Parallel()

	var concurrent int32
	var maxConcurrent int32

	makeManifest := func(name string) *manifest.Manifest {
		return &manifest.Manifest{
			Name: name,
			Actions: []*action.Action{
				{Kind: "package.install", Body: trackingLowerer{
					before: func() {
						cur := atomic.AddInt32(&concurrent, 1)
						for {
							max := atomic.LoadInt32(&maxConcurrent)
							if cur <= max || atomic.CompareAndSwapInt32(&maxConcurrent, max, cur) {
								break
							}
						}
						time.Sleep(10 * time.Millisecond)
					},
					after: func() { atomic.AddInt32(&concurrent, -1) },
				}},
			},
		}
	}

	g, err := graph.New([]*manifest.Manifest{makeManifest("p1"), makeManifest("p2")})
	require.NoError(t, err)

	pool := NewPool()
	results := pool.Run(context.Background(), g, Options{}, contexts.New(nil))
	for _, r := range results {
		require.NoError(t, r.Err)
	}

	require.LessOrEqual(t, atomic.LoadInt32(&maxConcurrent), int32(1))
}

type trackingLowerer struct {
	before func()
	after  func()
}

func (t trackingLowerer) Lower(mi action.ManifestInfo, c contexts.Contexts) ([]*step.Step, error) {
	t.before()
	defer t.after()
	return []*step.Step{{ID: mi.Name, Atom: &atom.DirCreate{Path: "/tmp"}}}, nil
}
func (t trackingLowerer) Summarize() string { return "tracking" }
func (t trackingLowerer) Privileged() bool  { return true }
