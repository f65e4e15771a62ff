// Package logger wraps charmbracelet/log with the field/component
// conventions used across statum: a root logger is created once at startup
// and every layer (worker, manifest, action, atom) derives a child via
// With() rather than constructing its own.
package logger

import (
	"io"
	"os"
	"sort"

	cblog "github.com/charmbracelet/log"
)

// Options configures a root Logger.
type Options struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string
	// HumanReadable selects the text formatter (TTY) over JSON (piped output).
	HumanReadable bool
	Writer        io.Writer
}

// Logger is a thin wrapper around *charmbracelet/log.Logger that adds a
// stable With(fields) convention matching the teacher's derived-logger idiom.
type Logger struct {
	base *cblog.Logger
}

// New constructs a root Logger from Options.
func New(opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	base := cblog.NewWithOptions(w, cblog.Options{
		Level:           parseLevel(opts.Level),
		ReportTimestamp: true,
	})
	if opts.HumanReadable {
		base.SetFormatter(cblog.TextFormatter)
	} else {
		base.SetFormatter(cblog.JSONFormatter)
	}

	return &Logger{base: base}
}

func parseLevel(level string) cblog.Level {
	switch level {
	case "debug":
		return cblog.DebugLevel
	case "warn", "warning":
		return cblog.WarnLevel
	case "error":
		return cblog.ErrorLevel
	default:
		return cblog.InfoLevel
	}
}

// With returns a derived Logger that always includes the supplied key/value
// pairs. Keys are sorted so repeated calls with the same field set produce
// stable output, matching charmbracelet/log's expectations for structured
// fields.
func (l *Logger) With(fields map[string]any) *Logger {
	if l == nil || l.base == nil || len(fields) == 0 {
		return l
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}

	return &Logger{base: l.base.With(args...)}
}

func (l *Logger) Debug(msg string, kv ...interface{}) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Debug(msg, kv...)
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Info(msg, kv...)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Warn(msg, kv...)
}

// Error logs msg at error level, attaching err as a field when non-nil.
func (l *Logger) Error(err error, msg string, kv ...interface{}) {
	if l == nil || l.base == nil {
		return
	}
	if err != nil {
		kv = append(kv, "error", err)
	}
	l.base.Error(msg, kv...)
}
