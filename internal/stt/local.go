package stt

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// LocalSTTConfig holds configuration for the local whisper.cpp STT backend.
type LocalSTTConfig struct {
	BaseURL  string // default: "http://localhost:8178"
	Language string
}

// LocalSTT wraps OpenAISTT pointing at a local whisper.cpp server.
// Start the server with:
//
//	./server -m models/ggml-base.bin --port 8178 --inference-path /audio/transcriptions
type LocalSTT struct {
	*OpenAISTT
}

// NewLocalSTT creates a LocalSTT backed by a local whisper.cpp HTTP server.
func NewLocalSTT(cfg LocalSTTConfig) *LocalSTT {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8178"
	}
	return &LocalSTT{
		OpenAISTT: NewOpenAISTT(OpenAISTTConfig{
			BaseURL:  baseURL,
			Language: cfg.Language,
			// whisper.cpp answers plain json; no API key needed
			Format: openai.AudioResponseFormatJSON,
		}),
	}
}

func (l *LocalSTT) Name() string { return "local-whisper" }

func (l *LocalSTT) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	return l.OpenAISTT.Transcribe(ctx, req)
}
