package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikhilbhutani/meetingai/internal/api/handlers"
	"github.com/nikhilbhutani/meetingai/internal/config"
	"github.com/nikhilbhutani/meetingai/internal/storage"
	"github.com/nikhilbhutani/meetingai/internal/stt"
	"github.com/nikhilbhutani/meetingai/internal/summary"
)

type echoSTT struct{}

func (echoSTT) Name() string { return "echo" }

func (echoSTT) Transcribe(_ context.Context, req stt.TranscriptionRequest) (*stt.TranscriptionResponse, error) {
	return &stt.TranscriptionResponse{Text: "transcript of " + filepath.Base(req.FilePath)}, nil
}

type prefixSummarizer struct{}

func (prefixSummarizer) Summarize(_ context.Context, transcript string) (*summary.Result, error) {
	return &summary.Result{Summary: "summary: " + transcript}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Upload.Dir = filepath.Join(t.TempDir(), "uploads")

	store, err := storage.NewLocalStorage(cfg.Upload.Dir)
	if err != nil {
		t.Fatal(err)
	}

	handler := NewRouter(cfg, Services{
		Store:      store,
		STT:        echoSTT{},
		Summarizer: prefixSummarizer{},
		Checks: map[string]handlers.Check{
			"runner": func(context.Context) error { return nil },
		},
	}).Setup()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func TestUploadTranscribeSummarize(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "meeting.wav")
	fw.Write([]byte("fake audio"))
	mw.Close()

	resp, err := http.Post(ts.URL+"/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	var up handlers.UploadResponse
	json.NewDecoder(resp.Body).Decode(&up)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || up.FileName != "meeting.wav" || !strings.HasSuffix(up.FilePath, "meeting.wav") {
		t.Fatalf("upload: status %d, %+v", resp.StatusCode, up)
	}

	var tr handlers.TranscribeResponse
	if code := postJSON(t, ts.URL+"/transcribe", handlers.TranscribeRequest{FileName: up.FileName}, &tr); code != http.StatusOK {
		t.Fatalf("transcribe: status %d", code)
	}
	if tr.Transcript != "transcript of meeting.wav" {
		t.Errorf("transcript = %q", tr.Transcript)
	}

	var sum handlers.SummarizeResponse
	if code := postJSON(t, ts.URL+"/summarize", handlers.SummarizeRequest{Transcript: tr.Transcript}, &sum); code != http.StatusOK {
		t.Fatalf("summarize: status %d", code)
	}
	if sum.Summary != "summary: transcript of meeting.wav" {
		t.Errorf("summary = %q", sum.Summary)
	}
}

func TestTranscribeUnknownFile(t *testing.T) {
	ts := newTestServer(t)

	var out handlers.ErrorResponse
	if code := postJSON(t, ts.URL+"/transcribe", handlers.TranscribeRequest{FileName: "never.wav"}, &out); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
	if out.Error != "File not found" {
		t.Errorf("error = %q", out.Error)
	}
}

func TestRoutes(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/summarize", http.StatusMethodNotAllowed},
		{http.MethodPost, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/summarize", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}
