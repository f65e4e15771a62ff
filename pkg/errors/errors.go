package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError represents a runtime failure while executing a step.
type ExecutionError struct {
	StepID string
	Err    error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(stepID string, err error) error {
	return &ExecutionError{StepID: stepID, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.StepID != "" {
		return fmt.Sprintf("execution error on step %s: %v", e.StepID, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// GraphError reports a cycle discovered while building the manifest
// dependency graph (graph.New ignores dependency names that match no
// manifest rather than reporting them). It is always fatal: no worker
// starts until the graph is valid.
type GraphError struct {
	Message string
	Err     error
}

// NewGraphError constructs a GraphError.
func NewGraphError(message string, err error) error {
	return &GraphError{Message: message, Err: err}
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("dependency graph error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *GraphError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PlanError indicates an Action could not compute its Steps (template
// render failure, condition evaluation error, release API unreachable).
// It fails the Action and, transitively, the Manifest.
type PlanError struct {
	ManifestName string
	ActionKind   string
	Err          error
}

// NewPlanError constructs a PlanError.
func NewPlanError(manifestName, actionKind string, err error) error {
	return &PlanError{ManifestName: manifestName, ActionKind: actionKind, Err: err}
}

func (e *PlanError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("plan error: manifest %s action %s: %v", e.ManifestName, e.ActionKind, e.Err)
}

// Unwrap exposes the underlying error.
func (e *PlanError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AtomPlanError wraps a failure from Atom.Plan(). The atom is filtered out
// of its Step list with a logged warning; sibling atoms continue.
type AtomPlanError struct {
	StepID string
	Err    error
}

// NewAtomPlanError constructs an AtomPlanError.
func NewAtomPlanError(stepID string, err error) error {
	return &AtomPlanError{StepID: stepID, Err: err}
}

func (e *AtomPlanError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("atom plan error on step %s: %v", e.StepID, e.Err)
}

// Unwrap exposes the underlying error.
func (e *AtomPlanError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DependencyFailedError marks a Manifest that did not run because one of
// its declared dependencies failed. It carries no underlying cause beyond
// the dependency relationship itself.
type DependencyFailedError struct {
	ManifestName   string
	DependencyName string
}

// NewDependencyFailedError constructs a DependencyFailedError.
func NewDependencyFailedError(manifestName, dependencyName string) error {
	return &DependencyFailedError{ManifestName: manifestName, DependencyName: dependencyName}
}

func (e *DependencyFailedError) Error() string {
	if e == nil {
		return ""
	}
	if e.DependencyName != "" {
		return fmt.Sprintf("manifest %s: dependency failed: %s", e.ManifestName, e.DependencyName)
	}
	return fmt.Sprintf("manifest %s: dependency failed", e.ManifestName)
}

// PluginError indicates issues within plugin registration or execution.
type PluginError struct {
	Plugin  string
	Message string
	Err     error
}

// NewPluginError constructs a PluginError for the given plugin type.
func NewPluginError(plugin string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &PluginError{Plugin: plugin, Message: message, Err: err}
}

func (e *PluginError) Error() string {
	if e == nil {
		return ""
	}
	if e.Plugin != "" {
		return fmt.Sprintf("plugin error [%s]: %s", e.Plugin, e.Message)
	}
	return fmt.Sprintf("plugin error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *PluginError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
