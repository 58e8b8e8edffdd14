package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIRunner struct {
	client *openai.Client
	model  string
}

func NewOpenAIRunner(apiKey, model string) *OpenAIRunner {
	return NewOpenAIRunnerWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAIRunnerWithConfig allows pointing the runner at any
// OpenAI-compatible endpoint.
func NewOpenAIRunnerWithConfig(cfg openai.ClientConfig, model string) *OpenAIRunner {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIRunner{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIRunner) Name() string { return "openai" }

func (p *OpenAIRunner) Run(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("openai chat: %w", ctx.Err())
		}
		return nil, &UpstreamError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &UpstreamError{Provider: "openai", Err: errors.New("no choices")}
	}
	return []byte(resp.Choices[0].Message.Content), nil
}
