package stt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

// CLISTTConfig holds configuration for the whisper.cpp command line backend.
type CLISTTConfig struct {
	BinPath   string // default: "whisper-cli"
	FFmpegBin string // default: "ffmpeg"
	ModelPath string // ggml model file, e.g. models/ggml-base.bin
	Language  string // whisper language code; "auto" detects
	Threads   int    // 0 lets whisper pick
}

// CLISTT converts each upload to 16kHz mono WAV with ffmpeg and runs
// whisper-cli over it. whisper-cli loads the model on every call; use the
// local backend to keep it resident.
type CLISTT struct {
	cfg    CLISTTConfig
	bin    string
	ffmpeg string
	exec   executor.Executor
}

// NewCLISTT resolves the binary and verifies the model file up front so a
// misconfigured host fails at startup rather than on the first request.
func NewCLISTT(cfg CLISTTConfig, exec executor.Executor) (*CLISTT, error) {
	if cfg.BinPath == "" {
		cfg.BinPath = "whisper-cli"
	}
	if cfg.FFmpegBin == "" {
		cfg.FFmpegBin = "ffmpeg"
	}
	if cfg.Language == "" {
		cfg.Language = "auto"
	}

	info, err := os.Stat(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper model: %w", err)
	}
	if info.IsDir() || info.Size() == 0 {
		return nil, fmt.Errorf("whisper model %s is not a model file", cfg.ModelPath)
	}

	bin, err := exec.LookPath(cfg.BinPath)
	if err != nil {
		return nil, fmt.Errorf("%s not found: install whisper.cpp first: %w", cfg.BinPath, err)
	}

	ffmpeg, err := exec.LookPath(cfg.FFmpegBin)
	if err != nil {
		return nil, fmt.Errorf("%s not found: install ffmpeg first: %w", cfg.FFmpegBin, err)
	}

	return &CLISTT{cfg: cfg, bin: bin, ffmpeg: ffmpeg, exec: exec}, nil
}

func (c *CLISTT) Name() string { return "whisper-cli" }

func (c *CLISTT) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	lang := req.Language
	if lang == "" {
		lang = c.cfg.Language
	}

	start := time.Now()
	wav, err := c.extractAudio(ctx, req.FilePath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(wav)

	args := []string{
		"-m", c.cfg.ModelPath,
		"-l", lang,
		"-nt", // no timestamps
		"-np", // no progress
		"-f", wav,
	}
	if c.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(c.cfg.Threads))
	}
	if req.Prompt != "" {
		args = append(args, "--prompt", req.Prompt)
	}

	res, err := c.exec.Run(ctx, nil, c.bin, args...)
	if err != nil {
		return nil, fmt.Errorf("whisper-cli: %w", err)
	}

	text := joinSegments(string(res.Stdout))
	slog.Debug("transcription finished", "backend", c.Name(), "file", req.FilePath, "duration", time.Since(start))

	return &TranscriptionResponse{Text: text}, nil
}

// extractAudio writes a 16kHz mono PCM copy of src to a temp file and returns
// its path. The caller removes it.
func (c *CLISTT) extractAudio(ctx context.Context, src string) (string, error) {
	f, err := os.CreateTemp("", "meetingai-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}
	wav := f.Name()
	f.Close()

	args := []string{
		"-i", src,
		"-vn",          // drop video streams
		"-ar", "16000", // whisper expects 16kHz
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wav,
	}
	if _, err := c.exec.Run(ctx, nil, c.ffmpeg, args...); err != nil {
		os.Remove(wav)
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return wav, nil
}

// joinSegments flattens whisper-cli's one-segment-per-line output.
func joinSegments(out string) string {
	var parts []string
	for _, line := range strings.Split(out, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}
