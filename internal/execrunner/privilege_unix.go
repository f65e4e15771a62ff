//go:build !windows

package execrunner

import "os"

// isRoot reports whether the current process is already running as root,
// in which case privilege elevation is a no-op (spec.md §4.3 rule 2).
func isRoot() bool {
	return os.Geteuid() == 0
}
