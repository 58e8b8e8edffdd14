package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRunCapturesStdout(t *testing.T) {
	res, err := New().Run(context.Background(), strings.NewReader("hello from stdin"), "sh", "-c", "cat; echo done >&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(res.Stdout) != "hello from stdin" {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(string(res.Stderr)) != "done" {
		t.Errorf("stderr = %q", res.Stderr)
	}
}

func TestRunExitError(t *testing.T) {
	_, err := New().Run(context.Background(), nil, "sh", "-c", "echo partial; echo boom >&2; exit 3")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
	if strings.TrimSpace(string(exitErr.Stdout)) != "partial" {
		t.Errorf("Stdout = %q", exitErr.Stdout)
	}
	if !strings.Contains(exitErr.Error(), "boom") {
		t.Errorf("Error() = %q, want stderr included", exitErr.Error())
	}
}

func TestRunDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := New().Run(ctx, nil, "sh", "-c", "sleep 5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want DeadlineExceeded", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Errorf("Run took %v after deadline", time.Since(start))
	}
}

func TestRunMissingBinary(t *testing.T) {
	_, err := New().Run(context.Background(), nil, "definitely-not-a-real-binary-xyz")
	if err == nil {
		t.Fatal("expected error")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Error("missing binary should not be reported as an exit error")
	}
}
