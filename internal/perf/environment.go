// Package perf runs interactive performance benchmarks across branches and
// curates the raw timings into a comparison table.
package perf

import (
	"context"
)

// Environment references the working trees used during a session.
type Environment struct {
	// Dir is the build-ready tree that every branch is checked out into.
	Dir string
	// TestsDir is the checkout supplying the test-suite files.
	TestsDir string
	// Branch is the branch currently checked out in Dir.
	Branch string
}

// SourceControl is the subset of git operations the pipeline needs.
type SourceControl interface {
	Clone(ctx context.Context, url, dest string) error
	CheckoutRemoteBranch(ctx context.Context, path, branch string) error
	DiscardLocalChanges(ctx context.Context, path string) error
}

// ShellRunner executes a shell command in a working directory. A non-zero
// exit status is returned as an error.
type ShellRunner interface {
	Run(ctx context.Context, command, dir string) error
}

// FileStore reads and writes JSON documents.
type FileStore interface {
	ReadJSON(path string, v any) error
	WriteJSON(path string, v any) error
}

// Confirmer asks the operator for a yes/no answer.
type Confirmer interface {
	Confirm(message string) bool
}

// Runtime controls the service pair the suites are measured against.
type Runtime interface {
	CheckPorts() error
	Start(ctx context.Context, dir string) error
	Stop(ctx context.Context, dir string) error
}
