package step

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudhex/statum/internal/atom"
)

type fakeInit struct {
	result bool
	err    error
}

func (f fakeInit) Initialize(ctx context.Context) (bool, error) { return f.result, f.err }

type fakeFinal struct {
	result bool
	err    error
}

func (f fakeFinal) Finalize(ctx context.Context, a atom.Atom) (bool, error) { return f.result, f.err }

func TestAllowedToRunEnsureTrueContinues(t *testing.T) {
	t.Parallel()
	s := &Step{Initializers: []InitGate{{Predicate: fakeInit{result: true}}}}
	ok, err := s.AllowedToRun(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAllowedToRunEnsureFalseBlocks(t *testing.T) {
	t.Parallel()
	s := &Step{Initializers: []InitGate{{Predicate: fakeInit{result: false}}}}
	ok, err := s.AllowedToRun(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAllowedToRunEnsureErrorBlocks(t *testing.T) {
	t.Parallel()
	s := &Step{Initializers: []InitGate{{Predicate: fakeInit{err: errors.New("boom")}}}}
	ok, err := s.AllowedToRun(context.Background())
	require.Error(t, err)
	require.False(t, ok)
}

func TestAllowedToRunSkipIfTrueBlocks(t *testing.T) {
	t.Parallel()
	s := &Step{Initializers: []InitGate{{Predicate: fakeInit{result: true}, SkipIf: true}}}
	ok, err := s.AllowedToRun(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAllowedToRunSkipIfFalseContinues(t *testing.T) {
	t.Parallel()
	s := &Step{Initializers: []InitGate{{Predicate: fakeInit{result: false}, SkipIf: true}}}
	ok, err := s.AllowedToRun(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAllowedToRunSkipIfErrorBlocksFailSafe(t *testing.T) {
	t.Parallel()
	s := &Step{Initializers: []InitGate{{Predicate: fakeInit{err: errors.New("boom")}, SkipIf: true}}}
	ok, err := s.AllowedToRun(context.Background())
	require.Error(t, err)
	require.False(t, ok)
}

func TestAllowedToContinueStopIfFalseContinues(t *testing.T) {
	t.Parallel()
	s := &Step{Finalizers: []FinGate{{Check: fakeFinal{result: false}, StopIf: true}}}
	require.True(t, s.AllowedToContinue(context.Background()))
}

func TestAllowedToContinueStopIfTrueStops(t *testing.T) {
	t.Parallel()
	s := &Step{Finalizers: []FinGate{{Check: fakeFinal{result: true}, StopIf: true}}}
	require.False(t, s.AllowedToContinue(context.Background()))
}

func TestAllowedToContinueStopIfErrorStopsWithoutPropagating(t *testing.T) {
	t.Parallel()
	s := &Step{Finalizers: []FinGate{{Check: fakeFinal{err: errors.New("boom")}, StopIf: true}}}
	require.False(t, s.AllowedToContinue(context.Background()))
}

func TestAllowedToContinueEnsureTrueContinues(t *testing.T) {
	t.Parallel()
	s := &Step{Finalizers: []FinGate{{Check: fakeFinal{result: true}}}}
	require.True(t, s.AllowedToContinue(context.Background()))
}

func TestAllowedToContinueEnsureFalseStops(t *testing.T) {
	t.Parallel()
	s := &Step{Finalizers: []FinGate{{Check: fakeFinal{result: false}}}}
	require.False(t, s.AllowedToContinue(context.Background()))
}
