package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

// CLIRunner pipes the prompt into `<command> run <model>` and returns stdout.
// The runner binary is resolved from PATH on every call.
type CLIRunner struct {
	command string
	model   string
	exec    executor.Executor
}

func NewCLIRunner(command, model string, exec executor.Executor) *CLIRunner {
	if command == "" {
		command = "ollama"
	}
	return &CLIRunner{command: command, model: model, exec: exec}
}

func (r *CLIRunner) Name() string { return r.command }

// Run returns *executor.ExitError when the process exits non-zero and an
// error wrapping ctx.Err() when it was killed.
func (r *CLIRunner) Run(ctx context.Context, prompt string) ([]byte, error) {
	res, err := r.exec.Run(ctx, strings.NewReader(prompt), r.command, "run", r.model)
	if err != nil {
		return nil, fmt.Errorf("%s run %s: %w", r.command, r.model, err)
	}
	return res.Stdout, nil
}
