package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// ExitError reports a command that ran but exited with a non-zero status.
// Both output streams are kept so callers can surface them.
type ExitError struct {
	Name   string
	Code   int
	Stdout []byte
	Stderr []byte
	Err    error
}

func (e *ExitError) Error() string {
	stderr := strings.TrimSpace(string(e.Stderr))
	if stderr != "" {
		return fmt.Sprintf("command '%s' exited with status %d: %s", e.Name, e.Code, stderr)
	}
	return fmt.Sprintf("command '%s' exited with status %d", e.Name, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

type implExecutor struct {
	waitDelay time.Duration
}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{waitDelay: time.Second}
}

// Run executes name with args, feeding stdin when non-nil. When ctx ends
// first the process is killed and the returned error wraps ctx.Err().
func (e *implExecutor) Run(ctx context.Context, stdin io.Reader, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	// children that inherited the pipes must not keep Wait blocked after a kill
	cmd.WaitDelay = e.waitDelay
	if stdin != nil {
		cmd.Stdin = stdin
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("command '%s' stopped: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, &ExitError{
			Name:   name,
			Code:   exitErr.ExitCode(),
			Stdout: stdout.Bytes(),
			Stderr: stderr.Bytes(),
			Err:    err,
		}
	}
	return nil, fmt.Errorf("command '%s' failed: %w", name, err)
}

func (e *implExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
