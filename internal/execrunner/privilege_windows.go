//go:build windows

package execrunner

// isRoot is always false on Windows: the sudo/doas/run0 elevation model
// does not apply there (statum's Windows providers are never privileged).
func isRoot() bool {
	return false
}
