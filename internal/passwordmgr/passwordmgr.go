// Package passwordmgr holds the elevation secret prompted once per run and
// keeps the provider's privilege session alive in the background. Grounded
// on original_source/lib/src/utilities/password_manager.rs: a
// Zeroize/ZeroizeOnDrop secret, a TTY prompt, and a background ticker that
// periodically re-authenticates with the provider so long-running applies
// don't hit a stale sudo timestamp.
package passwordmgr

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/cloudhex/statum/internal/execrunner"
)

// refreshInterval matches the original's `interval(Duration::from_secs(60*10))`.
const refreshInterval = 10 * time.Minute

// Manager owns the single elevation secret for a run. Secret is held in a
// byte slice so Zero can overwrite it in place; Go has no destructor to hook
// a Rust-style ZeroizeOnDrop, so callers must call Zero explicitly (the stop
// function returned by KeepElevated does this, and cmd/statum defers it).
type Manager struct {
	provider string
	mu       sync.RWMutex
	secret   []byte
	prompted bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Manager for the given privilege-elevation provider
// binary (e.g. "sudo", "doas").
func New(provider string) *Manager {
	if provider == "" {
		provider = "sudo"
	}
	return &Manager{provider: provider}
}

// Prompt reads the elevation password once from the terminal on fd,
// writing prompt to out first. Calling Prompt again is a no-op once a
// secret has already been captured.
func (m *Manager) Prompt(out io.Writer, fd int, prompt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prompted {
		return nil
	}

	if !term.IsTerminal(fd) {
		return fmt.Errorf("elevation required but stdin is not a terminal")
	}

	if _, err := fmt.Fprint(out, prompt); err != nil {
		return err
	}
	secret, err := term.ReadPassword(fd)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	m.secret = secret
	m.prompted = true
	return nil
}

// Secret returns the stored elevation password.
func (m *Manager) Secret() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return string(m.secret)
}

// KeepElevated starts a background goroutine that re-authenticates with the
// provider every refreshInterval, matching the original's keep_elevated()
// tokio task. Call the returned stop function to end the refresh loop and
// zero the secret.
func (m *Manager) KeepElevated(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				secret := m.Secret()
				if secret == "" {
					continue
				}
				_, _ = execrunner.Run(ctx, execrunner.Spec{
					Command:    m.provider,
					Args:       []string{"-S", "-v"},
					Privileged: false,
					Secret:     secret,
				})
			}
		}
	}()

	return func() {
		cancel()
		m.wg.Wait()
		m.Zero()
	}
}

// Zero overwrites the stored secret in place, matching the Rust side's
// ZeroizeOnDrop.
func (m *Manager) Zero() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.secret {
		m.secret[i] = 0
	}
	m.secret = nil
	m.prompted = false
}
