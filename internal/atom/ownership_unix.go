//go:build !windows

package atom

import (
	"os"
	"syscall"
)

// statOwnership extracts uid/gid from a os.FileInfo on platforms that back
// it with syscall.Stat_t. ok is false on platforms where ownership is not a
// meaningful concept (handled in ownership_windows.go).
func statOwnership(info os.FileInfo) (uid, gid int, ok bool) {
	stat, isStat := info.Sys().(*syscall.Stat_t)
	if !isStat {
		return 0, 0, false
	}
	return int(stat.Uid), int(stat.Gid), true
}
