package graph

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBarrierAllTrueYieldsTrue(t *testing.T) {
	t.Parallel()

	b := NewDependencyBarrier(2)
	var wg sync.WaitGroup
	results := make([]bool, 2)
	wg.Add(2)
	go func() { defer wg.Done(); results[0] = b.Wait(true) }()
	go func() { defer wg.Done(); results[1] = b.Wait(true) }()
	wg.Wait()

	require.True(t, results[0])
	require.True(t, results[1])
}

func TestBarrierAnyFalsePropagatesFalse(t *testing.T) {
	t.Parallel()

	b := NewDependencyBarrier(2)
	var wg sync.WaitGroup
	results := make([]bool, 2)
	wg.Add(2)
	go func() { defer wg.Done(); results[0] = b.Wait(true) }()
	go func() { defer wg.Done(); results[1] = b.Wait(false) }()
	wg.Wait()

	require.False(t, results[0])
	require.False(t, results[1])
}

func TestBarrierBlocksUntilAllSignalsArrive(t *testing.T) {
	t.Parallel()

	b := NewDependencyBarrier(2)
	done := make(chan bool, 1)
	go func() { done <- b.Wait(true) }()

	select {
	case <-done:
		t.Fatal("barrier returned before second signal arrived")
	case <-time.After(50 * time.Millisecond):
	}

	go b.Wait(true)
	require.True(t, <-done)
}
