package xrandr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result is what a finished command wrote.
type Result struct {
	Stdout []byte
	// Stderr is trimmed. xrandr prints warnings here even on exit status 0.
	Stderr string
}

// Runner executes a command and returns its output.
type Runner interface {
	Run(ctx context.Context, path string, args []string) (Result, error)
}

// CommandError keeps the stderr of a failed xrandr invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

// Error implements error. Args are left out so callers can match output
// names against what xrandr itself complained about.
func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("xrandr: %v", e.Err)
	}
	return fmt.Sprintf("xrandr: %v: %s", e.Err, e.Stderr)
}

// Unwrap returns the underlying cause.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the command, waits for it and captures stdout and stderr.
func (ExecRunner) Run(ctx context.Context, path string, args []string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return Result{}, &CommandError{
			Args:   append([]string(nil), args...),
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return Result{Stdout: stdout.Bytes(), Stderr: strings.TrimSpace(stderr.String())}, nil
}
