package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilbhutani/meetingai/internal/api"
	"github.com/nikhilbhutani/meetingai/internal/api/handlers"
	"github.com/nikhilbhutani/meetingai/internal/config"
	"github.com/nikhilbhutani/meetingai/internal/llm"
	"github.com/nikhilbhutani/meetingai/internal/storage"
	"github.com/nikhilbhutani/meetingai/internal/stt"
	"github.com/nikhilbhutani/meetingai/internal/summary"
	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	exec := executor.New()

	store, err := storage.NewLocalStorage(cfg.Upload.Dir)
	if err != nil {
		return err
	}

	// One STT provider per process. Only the local backend keeps the model resident.
	sttProvider, err := stt.New(cfg.STT, exec)
	if err != nil {
		return fmt.Errorf("failed to init speech-to-text: %w", err)
	}

	runner, err := llm.New(cfg.Summary, exec)
	if err != nil {
		return fmt.Errorf("failed to init summary runner: %w", err)
	}

	router := api.NewRouter(cfg, api.Services{
		Store:      store,
		STT:        sttProvider,
		Summarizer: summary.New(cfg.Summary, runner),
		Checks:     readinessChecks(cfg, exec),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting API server",
			"addr", cfg.Addr(),
			"upload_dir", store.Dir(),
			"stt", sttProvider.Name(),
			"runner", runner.Name(),
			"model", cfg.Summary.Model,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
	return nil
}

// readinessChecks reports the binaries the configured backends spawn per request.
func readinessChecks(cfg *config.Config, exec executor.Executor) map[string]handlers.Check {
	checks := map[string]handlers.Check{}
	for name, bin := range requiredBinaries(cfg) {
		bin := bin
		checks[name] = func(context.Context) error {
			_, err := exec.LookPath(bin)
			return err
		}
	}
	return checks
}

func requiredBinaries(cfg *config.Config) map[string]string {
	bins := map[string]string{}
	if cfg.Summary.Backend == "cli" {
		bins["runner"] = cfg.Summary.Command
	}
	if cfg.STT.Backend == "cli" {
		bins["whisper"] = cfg.STT.WhisperBin
		bins["ffmpeg"] = cfg.STT.FFmpegBin
	}
	return bins
}
