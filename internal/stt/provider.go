package stt

import (
	"context"
	"fmt"

	"github.com/nikhilbhutani/meetingai/internal/config"
	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

// TranscriptionRequest holds the parameters for audio transcription.
type TranscriptionRequest struct {
	FilePath string `json:"file_path"`
	Language string `json:"language,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
}

// TranscriptionResponse holds the transcription result.
type TranscriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// STTProvider is the interface for speech-to-text backends.
type STTProvider interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
	Name() string
}

// New builds the provider selected by cfg.Backend. It is meant to be called
// once at startup; the returned provider is shared by all requests.
func New(cfg config.STTConfig, exec executor.Executor) (STTProvider, error) {
	switch cfg.Backend {
	case "cli":
		return NewCLISTT(CLISTTConfig{
			BinPath:   cfg.WhisperBin,
			FFmpegBin: cfg.FFmpegBin,
			ModelPath: cfg.ModelPath,
			Language:  cfg.Language,
			Threads:   cfg.Threads,
		}, exec)
	case "openai":
		return NewOpenAISTT(OpenAISTTConfig{
			APIKey:   cfg.OpenAIKey,
			BaseURL:  cfg.OpenAIBaseURL,
			Model:    cfg.OpenAIModel,
			Language: cfg.Language,
		}), nil
	case "local":
		return NewLocalSTT(LocalSTTConfig{
			BaseURL:  cfg.LocalBaseURL,
			Language: cfg.Language,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported stt backend: %s", cfg.Backend)
	}
}
