package deps

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

type fakeExecutor struct {
	installed map[string]string
	stdout    string
	stderr    string
	runErr    error
}

func (f *fakeExecutor) LookPath(name string) (string, error) {
	if p, ok := f.installed[name]; ok {
		return p, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeExecutor) Run(_ context.Context, _ io.Reader, _ string, _ ...string) (*executor.Result, error) {
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &executor.Result{Stdout: []byte(f.stdout), Stderr: []byte(f.stderr)}, nil
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		exec        *fakeExecutor
		wantInstall bool
		wantPath    string
		wantVersion string
	}{
		{
			name:        "not installed",
			exec:        &fakeExecutor{},
			wantInstall: false,
		},
		{
			name:        "installed with version",
			exec:        &fakeExecutor{installed: map[string]string{"ollama": "/usr/bin/ollama"}, stdout: "ollama version is 0.5.7\nextra"},
			wantInstall: true,
			wantPath:    "/usr/bin/ollama",
			wantVersion: "ollama version is 0.5.7",
		},
		{
			name:        "version on stderr",
			exec:        &fakeExecutor{installed: map[string]string{"ollama": "/usr/bin/ollama"}, stderr: "  v1.2\n"},
			wantInstall: true,
			wantPath:    "/usr/bin/ollama",
			wantVersion: "v1.2",
		},
		{
			name:        "version flag fails",
			exec:        &fakeExecutor{installed: map[string]string{"ollama": "/usr/bin/ollama"}, runErr: errors.New("exit 1")},
			wantInstall: true,
			wantPath:    "/usr/bin/ollama",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(context.Background(), tt.exec, Binary{Name: "ollama", VersionFlag: "--version"})
			if got.Installed != tt.wantInstall || got.Path != tt.wantPath || got.Version != tt.wantVersion {
				t.Errorf("Check() = %+v", got)
			}
			if got.Name != "ollama" {
				t.Errorf("Name = %q", got.Name)
			}
		})
	}
}

func TestCheckAllKeepsOrder(t *testing.T) {
	fx := &fakeExecutor{installed: map[string]string{"whisper-cli": "/opt/whisper-cli"}}
	got := CheckAll(context.Background(), fx, []Binary{{Name: "ollama"}, {Name: "whisper-cli"}})

	if len(got) != 2 || got[0].Name != "ollama" || got[1].Name != "whisper-cli" {
		t.Fatalf("CheckAll() = %+v", got)
	}
	if got[0].Installed || !got[1].Installed {
		t.Errorf("installed flags = %v, %v", got[0].Installed, got[1].Installed)
	}
}

func TestCheckRealPath(t *testing.T) {
	// behavior depends on system; just verify the structure is consistent
	status := Check(context.Background(), executor.New(), Binary{Name: "sh"})
	if status.Installed && status.Path == "" {
		t.Error("installed but path empty")
	}
	if !status.Installed && status.Path != "" {
		t.Error("not installed but path non-empty")
	}
}
