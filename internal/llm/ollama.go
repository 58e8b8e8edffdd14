package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// OllamaRunner talks to a running Ollama server instead of spawning the CLI.
type OllamaRunner struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOllamaRunner(baseURL, model string) *OllamaRunner {
	return &OllamaRunner{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (p *OllamaRunner) Name() string { return "ollama" }

type ollamaGenerateReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResp struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (p *OllamaRunner) Run(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(ollamaGenerateReq{Model: p.model, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ollama generate: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ollama generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamError{Provider: "ollama", Status: resp.StatusCode, Body: string(respBody)}
	}

	var oResp ollamaGenerateResp
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return nil, fmt.Errorf("ollama decode: %w", err)
	}

	slog.Debug("ollama generate finished",
		"model", p.model,
		"prompt_tokens", oResp.PromptEvalCount,
		"completion_tokens", oResp.EvalCount,
	)
	return []byte(oResp.Response), nil
}
