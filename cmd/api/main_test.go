package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/nikhilbhutani/meetingai/internal/config"
	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

func TestRequiredBinaries(t *testing.T) {
	tests := []struct {
		name    string
		stt     string
		summary string
		want    map[string]string
	}{
		{"both cli", "cli", "cli", map[string]string{"runner": "ollama", "whisper": "whisper-cli", "ffmpeg": "ffmpeg"}},
		{"defaults", "", "", map[string]string{"runner": "ollama"}},
		{"http backends", "openai", "anthropic", map[string]string{}},
		{"ollama server", "local", "ollama", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			if tt.stt != "" {
				cfg.STT.Backend = tt.stt
			}
			if tt.summary != "" {
				cfg.Summary.Backend = tt.summary
			}

			got := requiredBinaries(cfg)
			if len(got) != len(tt.want) {
				t.Fatalf("requiredBinaries() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestReadinessChecksIncludeFFmpeg(t *testing.T) {
	cfg := config.Defaults()
	cfg.STT.Backend = "cli"
	cfg.STT.FFmpegBin = "ffmpeg-not-installed-here"

	checks := readinessChecks(cfg, executor.New())
	check, ok := checks["ffmpeg"]
	if !ok {
		t.Fatalf("no ffmpeg readiness check in %v", checks)
	}
	if err := check(context.Background()); err == nil {
		t.Error("missing ffmpeg reported ready")
	}
}

func TestVersionFlag(t *testing.T) {
	if versionFlag("ffmpeg") != "-version" || versionFlag("runner") != "--version" {
		t.Errorf("versionFlag = %q / %q", versionFlag("ffmpeg"), versionFlag("runner"))
	}
}

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		l := newLogger(config.LogConfig{Level: tt.level, Format: "text"})
		if !l.Enabled(context.Background(), tt.want) {
			t.Errorf("level %q: %v not enabled", tt.level, tt.want)
		}
		if tt.want > slog.LevelDebug && l.Enabled(context.Background(), tt.want-4) {
			t.Errorf("level %q: %v should be disabled", tt.level, tt.want-4)
		}
	}
}
