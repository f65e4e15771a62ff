package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a top-level error to the process exit code spec.md §5
// requires: 0 success (handled by the non-error path in main), 1 for any
// manifest failure, 2 for configuration/CLI misuse.
func exitCodeFor(err error) int {
	if cliErr, ok := err.(*cliUsageError); ok {
		_ = cliErr
		return 2
	}
	return 1
}

// cliUsageError marks an error as configuration/CLI misuse rather than a
// manifest execution failure, for exitCodeFor's dispatch.
type cliUsageError struct{ err error }

func (e *cliUsageError) Error() string { return e.err.Error() }
func (e *cliUsageError) Unwrap() error { return e.err }

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &cliUsageError{err: err}
}
