package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/nikhilbhutani/meetingai/internal/config"
	"github.com/nikhilbhutani/meetingai/internal/llm"
	"github.com/nikhilbhutani/meetingai/internal/prompt"
	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

const logPreviewLen = 50

type Result struct {
	Summary     string   `json:"summary"`
	Insights    []string `json:"insights,omitempty"`
	ActionItems []string `json:"action_items,omitempty"`
}

// Service turns a transcript into a summary with one runner call.
type Service struct {
	runner   llm.Runner
	template string
	marker   string
	timeout  time.Duration
}

func New(cfg config.SummaryConfig, runner llm.Runner) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{
		runner:   runner,
		template: cfg.Prompt,
		marker:   cfg.EchoMarker,
		timeout:  timeout,
	}
}

// Summarize builds the prompt, runs it once and cleans the output. Every
// failure is returned as *Error.
func (s *Service) Summarize(ctx context.Context, transcript string) (*Result, error) {
	slog.Info("summarizing transcript", "preview", preview(transcript), "runner", s.runner.Name())

	p, err := prompt.Build(s.template, transcript)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Err: fmt.Errorf("build prompt: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.runner.Run(ctx, p)
	if err != nil {
		return nil, s.classify(err)
	}

	if !utf8.Valid(out) {
		return nil, &Error{Kind: KindDecode, Err: fmt.Errorf("invalid UTF-8 at byte %d of runner output", invalidOffset(out))}
	}

	text := Clean(string(out), s.marker)
	if text == "" {
		return nil, &Error{Kind: KindEmpty, Err: errors.New("no summary generated")}
	}

	slog.Debug("summary generated", "runner", s.runner.Name(), "duration", time.Since(start), "chars", len(text))

	return &Result{
		Summary:     text,
		Insights:    listAfter(text, "insight"),
		ActionItems: listAfter(text, "action item"),
	}, nil
}

func (s *Service) classify(err error) *Error {
	var exitErr *executor.ExitError
	var upErr *llm.UpstreamError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Err: fmt.Errorf("%s did not finish within %s: %w", s.runner.Name(), s.timeout, err)}
	case errors.As(err, &exitErr):
		return &Error{Kind: KindRunnerFailed, Err: err, Stdout: string(exitErr.Stdout), Stderr: string(exitErr.Stderr)}
	case errors.As(err, &upErr):
		return &Error{Kind: KindRunnerFailed, Err: err}
	default:
		return &Error{Kind: KindInternal, Err: err}
	}
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= logPreviewLen {
		return s
	}
	return string(r[:logPreviewLen]) + "..."
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}
