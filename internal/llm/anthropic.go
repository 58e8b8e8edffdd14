package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicRunner struct {
	client anthropic.Client
	model  string
}

func NewAnthropicRunner(apiKey, model string, opts ...option.RequestOption) *AnthropicRunner {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicRunner{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (p *AnthropicRunner) Name() string { return "anthropic" }

func (p *AnthropicRunner) Run(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("anthropic messages: %w", ctx.Err())
		}
		return nil, &UpstreamError{Provider: "anthropic", Err: err}
	}

	content := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	return []byte(content), nil
}
