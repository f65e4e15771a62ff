// Package execrunner spawns subprocesses for statum's Exec atom and the
// package-provider table. It reads the child's stdout/stderr line by line
// into capture buffers (nothing is echoed to the parent process's own
// output), and adds privilege-elevation argv rewriting and password-prompt
// detection on those lines.
package execrunner

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	statumerrors "github.com/cloudhex/statum/pkg/errors"
)

// promptDebounce bounds how often a detected password-prompt line re-injects
// the secret: a chatty sudo/provider wrapper can print the prompt text more
// than once per actual read, and re-sending the password on every repeat
// would desync the provider's stdin state machine.
const promptDebounce = 100 * time.Millisecond


// Spec describes a command to run.
type Spec struct {
	Command    string
	Args       []string
	Dir        string
	Env        map[string]string
	Privileged bool
	// Provider is the privilege-elevation binary (default "sudo") used when
	// Privileged is set.
	Provider string
	Secret   string
}

// Result captures a finished subprocess's exit status and captured output.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Run executes Spec, rewriting argv for privilege elevation and streaming
// stdout/stderr while watching for password prompts to answer with
// spec.Secret. A non-zero exit code is reported in Result, not as an error;
// Run's error return is reserved for failures to even start the process
// (ENOENT, permission denied on the binary) — the spawn-error vs
// exit-code-error distinction spec.md requires.
func Run(ctx context.Context, spec Spec) (Result, error) {
	name, args := rewriteForPrivilege(spec)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range spec.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return Result{}, statumerrors.NewExecutionError(spec.Command, err)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	stdoutReader, stdoutWriter := io.Pipe()
	stderrReader, stderrWriter := io.Pipe()
	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	var wg sync.WaitGroup
	injector := newPromptInjector(stdinPipe, spec.Secret)

	wg.Add(2)
	go func() {
		defer wg.Done()
		streamAndWatch(stdoutReader, &stdoutBuf, injector)
	}()
	go func() {
		defer wg.Done()
		streamAndWatch(stderrReader, &stderrBuf, injector)
	}()

	if err := cmd.Start(); err != nil {
		_ = stdoutWriter.Close()
		_ = stderrWriter.Close()
		wg.Wait()
		return Result{}, statumerrors.NewExecutionError(spec.Command, err)
	}

	runErr := cmd.Wait()
	_ = stdoutWriter.Close()
	_ = stderrWriter.Close()
	_ = stdinPipe.Close()
	wg.Wait()

	exitCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			// The process never produced an exit code at all (killed by
			// signal, context cancellation) — that is a spawn-class error.
			return Result{}, statumerrors.NewExecutionError(spec.Command, runErr)
		}
	}

	return Result{
		ExitCode: exitCode,
		Stdout:   strings.TrimSpace(stdoutBuf.String()),
		Stderr:   strings.TrimSpace(stderrBuf.String()),
	}, nil
}

// rewriteForPrivilege builds the argv for a privileged invocation: the
// provider binary runs first with the original command appended, and sudo
// specifically gets -S inserted so it reads the password from stdin instead
// of the controlling TTY.
func rewriteForPrivilege(spec Spec) (string, []string) {
	if !spec.Privileged || isRoot() {
		return spec.Command, spec.Args
	}

	provider := spec.Provider
	if provider == "" {
		provider = "sudo"
	}

	argv := make([]string, 0, len(spec.Args)+3)
	if provider == "sudo" {
		argv = append(argv, "-S")
	}
	argv = append(argv, spec.Command)
	argv = append(argv, spec.Args...)
	return provider, argv
}

// promptInjector writes Secret to stdin, debounced, each time a
// password-prompt line is observed on stdout or stderr.
type promptInjector struct {
	stdin  io.WriteCloser
	secret string
	mu     sync.Mutex
	last   time.Time
}

func newPromptInjector(stdin io.WriteCloser, secret string) *promptInjector {
	return &promptInjector{stdin: stdin, secret: secret}
}

// observe writes the secret (possibly empty, if no PasswordManager is
// attached) followed by a newline whenever a prompt line is seen, unless the
// previous write was less than promptDebounce ago. An empty secret still triggers the write per spec.md §4.3 —
// the child sees a bare newline and likely fails; this design does not
// attempt to re-prompt mid-run.
func (p *promptInjector) observe(line string) {
	if !looksLikePrompt(line) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if time.Since(p.last) < promptDebounce {
		return
	}
	p.last = time.Now()

	_, _ = io.WriteString(p.stdin, p.secret+"\n")
}

// looksLikePrompt matches spec.md's contract: any line whose lowercased
// form contains "password" is treated as a password prompt, across every
// provider statum shells out to (sudo, doas, run0).
func looksLikePrompt(line string) bool {
	return strings.Contains(strings.ToLower(line), "password")
}

// streamAndWatch copies r line-by-line into dst and feeds each line to the
// injector's prompt detector.
func streamAndWatch(r io.Reader, dst *bytes.Buffer, injector *promptInjector) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		dst.WriteString(line)
		dst.WriteByte('\n')
		injector.observe(line)
	}
}
