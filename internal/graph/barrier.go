package graph

import "sync"

// DependencyBarrier is a single-use AND-accumulating rendezvous: each of a
// manifest's dependencies signals Wait once on completion, and the
// dependent itself calls Wait once before starting its Actions. The
// accumulated boolean — true only if every signal was true — is returned to
// every caller once all expected signals have arrived. Grounded on
// original_source/app/src/commands/apply.rs's `manifest.barrier.wait(true)`
// usage.
type DependencyBarrier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	expected int
	arrived  int
	result   bool
	done     bool
}

// NewDependencyBarrier creates a barrier expecting `expected` signals
// (graph.New passes the manifest's dependency count plus one for the
// dependent's own Wait).
func NewDependencyBarrier(expected int) *DependencyBarrier {
	b := &DependencyBarrier{expected: expected, result: true}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait AND-accumulates result into the barrier and blocks until all
// expected signals have arrived, then returns the accumulated value to
// every caller.
func (b *DependencyBarrier) Wait(result bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !result {
		b.result = false
	}
	b.arrived++
	if b.arrived >= b.expected {
		b.done = true
		b.cond.Broadcast()
	}
	for !b.done {
		b.cond.Wait()
	}
	return b.result
}
