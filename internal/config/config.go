package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nikhilbhutani/meetingai/internal/prompt"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Upload  UploadConfig  `yaml:"upload"`
	STT     STTConfig     `yaml:"stt"`
	Summary SummaryConfig `yaml:"summary"`
	CORS    CORSConfig    `yaml:"cors"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type UploadConfig struct {
	Dir      string `yaml:"dir"`
	MaxBytes int64  `yaml:"max_bytes"` // 0 disables the limit
}

type STTConfig struct {
	Backend       string `yaml:"backend"` // "cli", "openai" or "local"
	WhisperBin    string `yaml:"whisper_bin"`
	FFmpegBin     string `yaml:"ffmpeg_bin"`
	ModelPath     string `yaml:"model_path"`
	Language      string `yaml:"language"`
	Threads       int    `yaml:"threads"`
	OpenAIKey     string `yaml:"openai_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`
	LocalBaseURL  string `yaml:"local_base_url"` // default: "http://localhost:8178"
}

type SummaryConfig struct {
	Backend        string        `yaml:"backend"` // "cli", "ollama", "openai" or "anthropic"
	Command        string        `yaml:"command"`
	Model          string        `yaml:"model"`
	Timeout        time.Duration `yaml:"timeout"`
	Prompt         string        `yaml:"prompt"`
	EchoMarker     string        `yaml:"echo_marker"`
	DecodeFallback bool          `yaml:"decode_fallback"`
	OllamaURL      string        `yaml:"ollama_url"`
	OpenAIKey      string        `yaml:"openai_key"`
	AnthropicKey   string        `yaml:"anthropic_key"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Defaults returns the configuration used when neither a file nor the
// environment sets a value.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     5 * time.Minute,
			WriteTimeout:    15 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
		},
		Upload: UploadConfig{
			Dir:      "uploads",
			MaxBytes: 1 << 30,
		},
		STT: STTConfig{
			Backend:      "local",
			WhisperBin:   "whisper-cli",
			FFmpegBin:    "ffmpeg",
			ModelPath:    "models/ggml-base.bin",
			Language:     "auto",
			OpenAIModel:  "whisper-1",
			LocalBaseURL: "http://localhost:8178",
		},
		Summary: SummaryConfig{
			Backend:    "cli",
			Command:    "ollama",
			Timeout:    60 * time.Second,
			EchoMarker: ">>>",
			OllamaURL:  "http://localhost:11434",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyBackendDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error

	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	if c.Server.Port, err = getEnvInt("SERVER_PORT", c.Server.Port); err != nil {
		return fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	if c.Server.ReadTimeout, err = getEnvDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}
	if c.Server.WriteTimeout, err = getEnvDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}
	if c.Server.ShutdownTimeout, err = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}

	c.Upload.Dir = getEnv("UPLOAD_DIR", c.Upload.Dir)
	if c.Upload.MaxBytes, err = getEnvInt64("UPLOAD_MAX_BYTES", c.Upload.MaxBytes); err != nil {
		return fmt.Errorf("invalid UPLOAD_MAX_BYTES: %w", err)
	}

	c.STT.Backend = getEnv("STT_BACKEND", c.STT.Backend)
	c.STT.WhisperBin = getEnv("STT_WHISPER_BIN", c.STT.WhisperBin)
	c.STT.FFmpegBin = getEnv("STT_FFMPEG_BIN", c.STT.FFmpegBin)
	c.STT.ModelPath = getEnv("STT_MODEL_PATH", c.STT.ModelPath)
	c.STT.Language = getEnv("STT_LANGUAGE", c.STT.Language)
	if c.STT.Threads, err = getEnvInt("STT_THREADS", c.STT.Threads); err != nil {
		return fmt.Errorf("invalid STT_THREADS: %w", err)
	}
	c.STT.OpenAIKey = getEnv("OPENAI_API_KEY", c.STT.OpenAIKey)
	c.STT.OpenAIBaseURL = getEnv("STT_OPENAI_BASE_URL", c.STT.OpenAIBaseURL)
	c.STT.OpenAIModel = getEnv("STT_OPENAI_MODEL", c.STT.OpenAIModel)
	c.STT.LocalBaseURL = getEnv("STT_LOCAL_BASE_URL", c.STT.LocalBaseURL)

	c.Summary.Backend = getEnv("SUMMARY_BACKEND", c.Summary.Backend)
	c.Summary.Command = getEnv("SUMMARY_COMMAND", c.Summary.Command)
	c.Summary.Model = getEnv("SUMMARY_MODEL", c.Summary.Model)
	if c.Summary.Timeout, err = getEnvDuration("SUMMARY_TIMEOUT", c.Summary.Timeout); err != nil {
		return fmt.Errorf("invalid SUMMARY_TIMEOUT: %w", err)
	}
	c.Summary.Prompt = getEnv("SUMMARY_PROMPT", c.Summary.Prompt)
	c.Summary.EchoMarker = getEnv("SUMMARY_ECHO_MARKER", c.Summary.EchoMarker)
	if c.Summary.DecodeFallback, err = getEnvBool("SUMMARY_DECODE_FALLBACK", c.Summary.DecodeFallback); err != nil {
		return fmt.Errorf("invalid SUMMARY_DECODE_FALLBACK: %w", err)
	}
	c.Summary.OllamaURL = getEnv("OLLAMA_URL", c.Summary.OllamaURL)
	c.Summary.OpenAIKey = getEnv("OPENAI_API_KEY", c.Summary.OpenAIKey)
	c.Summary.AnthropicKey = getEnv("ANTHROPIC_API_KEY", c.Summary.AnthropicKey)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORS.AllowedOrigins = splitList(v)
	}

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	return nil
}

// defaultSummaryModels is used when no model is configured for the backend.
var defaultSummaryModels = map[string]string{
	"cli":       "llama3:latest",
	"ollama":    "llama3:latest",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-sonnet-4-20250514",
}

func (c *Config) applyBackendDefaults() {
	if c.Summary.Model == "" {
		c.Summary.Model = defaultSummaryModels[c.Summary.Backend]
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var problems []string

	if c.Upload.Dir == "" {
		problems = append(problems, "upload dir is empty")
	}
	if c.Upload.MaxBytes < 0 {
		problems = append(problems, "upload max bytes must not be negative")
	}

	switch c.STT.Backend {
	case "cli":
		if c.STT.WhisperBin == "" || c.STT.ModelPath == "" || c.STT.FFmpegBin == "" {
			problems = append(problems, "STT_WHISPER_BIN, STT_FFMPEG_BIN and STT_MODEL_PATH required for cli backend")
		}
	case "openai":
		if c.STT.OpenAIKey == "" && c.STT.OpenAIBaseURL == "" {
			problems = append(problems, "OPENAI_API_KEY required for openai stt backend")
		}
	case "local":
	default:
		problems = append(problems, fmt.Sprintf("unknown STT_BACKEND %q", c.STT.Backend))
	}

	switch c.Summary.Backend {
	case "cli":
		if c.Summary.Command == "" {
			problems = append(problems, "SUMMARY_COMMAND required for cli backend")
		}
	case "ollama":
		if c.Summary.OllamaURL == "" {
			problems = append(problems, "OLLAMA_URL required for ollama backend")
		}
	case "openai":
		if c.Summary.OpenAIKey == "" {
			problems = append(problems, "OPENAI_API_KEY required for openai summary backend")
		}
	case "anthropic":
		if c.Summary.AnthropicKey == "" {
			problems = append(problems, "ANTHROPIC_API_KEY required for anthropic backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown SUMMARY_BACKEND %q", c.Summary.Backend))
	}
	if c.Summary.Model == "" {
		problems = append(problems, "SUMMARY_MODEL is empty")
	}
	for _, v := range prompt.ExtractVariables(c.Summary.Prompt) {
		if v != "transcript" {
			problems = append(problems, fmt.Sprintf("SUMMARY_PROMPT uses unknown variable {{%s}}", v))
		}
	}
	if c.Summary.Timeout <= 0 {
		problems = append(problems, "SUMMARY_TIMEOUT must be positive")
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		problems = append(problems, fmt.Sprintf("unknown LOG_FORMAT %q", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
