package llm

import (
	"context"
	"fmt"

	"github.com/nikhilbhutani/meetingai/internal/config"
	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

// Runner sends a single prompt to a language model and returns its raw
// output. Output is returned as bytes because callers validate the encoding.
type Runner interface {
	Run(ctx context.Context, prompt string) ([]byte, error)
	Name() string
}

// UpstreamError reports a model backend that was reached but refused or
// failed the request.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s failed (status %d): %s", e.Provider, e.Status, e.Body)
	default:
		return fmt.Sprintf("%s failed (status %d)", e.Provider, e.Status)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// New builds the runner selected by cfg.Backend.
func New(cfg config.SummaryConfig, exec executor.Executor) (Runner, error) {
	switch cfg.Backend {
	case "cli":
		return NewCLIRunner(cfg.Command, cfg.Model, exec), nil
	case "ollama":
		return NewOllamaRunner(cfg.OllamaURL, cfg.Model), nil
	case "openai":
		return NewOpenAIRunner(cfg.OpenAIKey, cfg.Model), nil
	case "anthropic":
		return NewAnthropicRunner(cfg.AnthropicKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported summary backend: %s", cfg.Backend)
	}
}
