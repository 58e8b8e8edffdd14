package executor

import (
	"context"
	"io"
)

// Executor defines the interface for executing external commands
type Executor interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) (*Result, error)
	LookPath(name string) (string, error)
}

// Result holds the captured output of a command that exited successfully.
type Result struct {
	Stdout []byte
	Stderr []byte
}
