//go:build windows

package atom

import "os"

// statOwnership is a no-op on Windows: FileChown.Plan always reports
// ShouldRun when Execute is reachable, since os.Chown is unsupported there.
func statOwnership(info os.FileInfo) (uid, gid int, ok bool) {
	return 0, 0, false
}
