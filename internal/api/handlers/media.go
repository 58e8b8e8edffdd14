package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nikhilbhutani/meetingai/internal/storage"
	"github.com/nikhilbhutani/meetingai/internal/stt"
	"github.com/nikhilbhutani/meetingai/internal/summary"
)

const maxJSONBodySize = 10 << 20 // 10 MiB

// Summarizer produces a summary or a *summary.Error.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*summary.Result, error)
}

type MediaHandler struct {
	store          storage.Storage
	stt            stt.STTProvider
	summarizer     Summarizer
	maxUploadBytes int64
	decodeFallback bool
}

type MediaOptions struct {
	MaxUploadBytes int64 // 0 disables the limit
	DecodeFallback bool
}

func NewMediaHandler(store storage.Storage, sttProvider stt.STTProvider, summarizer Summarizer, opts MediaOptions) *MediaHandler {
	return &MediaHandler{
		store:          store,
		stt:            sttProvider,
		summarizer:     summarizer,
		maxUploadBytes: opts.MaxUploadBytes,
		decodeFallback: opts.DecodeFallback,
	}
}

// Upload streams the multipart "file" part to storage under its original name.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart form with a file field required")
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.uploadFailed(w, err)
			return
		}
		if part.FormName() != "file" || part.FileName() == "" {
			part.Close()
			continue
		}

		name := part.FileName()
		path, err := h.store.Save(r.Context(), name, part)
		part.Close()
		if err != nil {
			if errors.Is(err, storage.ErrInvalidName) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			h.uploadFailed(w, err)
			return
		}

		slog.Info("file uploaded", "file", name, "path", path)
		writeJSON(w, http.StatusOK, UploadResponse{FileName: name, FilePath: path})
		return
	}

	writeError(w, http.StatusBadRequest, "file field required")
}

func (h *MediaHandler) uploadFailed(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		slog.Warn("upload too large", "limit", maxErr.Limit)
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	slog.Error("upload failed", "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// Transcribe runs the speech model over a previously uploaded file.
func (h *MediaHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	path, err := h.store.Locate(r.Context(), req.FileName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		slog.Error("transcribe failed", "file", req.FileName, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := h.stt.Transcribe(r.Context(), stt.TranscriptionRequest{FilePath: path})
	if err != nil {
		slog.Error("transcribe failed", "file", req.FileName, "provider", h.stt.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TranscribeResponse{Transcript: result.Text})
}

// Summarize sends the transcript to the configured runner.
func (h *MediaHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeError(w, http.StatusBadRequest, "transcript required")
		return
	}

	result, err := h.summarizer.Summarize(r.Context(), req.Transcript)
	if err != nil {
		h.summaryFailed(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SummarizeResponse{
		Summary:     result.Summary,
		Insights:    result.Insights,
		ActionItems: result.ActionItems,
	})
}

func (h *MediaHandler) summaryFailed(w http.ResponseWriter, err error) {
	var sErr *summary.Error
	if !errors.As(err, &sErr) {
		slog.Error("summarize failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if sErr.Kind == summary.KindDecode && h.decodeFallback {
		slog.Warn("summary output not decodable, returning placeholder", "error", err)
		writeJSON(w, http.StatusOK, SummarizeResponse{
			Summary: "Summary unavailable due to encoding issue: " + sErr.Err.Error(),
		})
		return
	}

	status := http.StatusInternalServerError
	if sErr.Kind == summary.KindTimeout {
		status = http.StatusGatewayTimeout
	}

	slog.Error("summarize failed", "kind", sErr.Kind, "error", err, "stdout", sErr.Stdout, "stderr", sErr.Stderr)
	writeJSON(w, status, SummaryErrorResponse{
		Error:  sErr.Error(),
		Kind:   string(sErr.Kind),
		Stdout: sErr.Stdout,
		Stderr: sErr.Stderr,
	})
}
