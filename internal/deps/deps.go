package deps

import (
	"context"
	"strings"
	"time"

	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

const versionTimeout = 5 * time.Second

// Status represents the installation status of a binary the server shells out to.
type Status struct {
	Name      string
	Installed bool
	Path      string
	Version   string
}

// Binary names a required executable and the flag that prints its version.
type Binary struct {
	Name        string
	VersionFlag string
}

// Check resolves b on PATH and, when found, records the first line its
// version flag prints. A binary that fails to report a version still counts
// as installed.
func Check(ctx context.Context, exec executor.Executor, b Binary) Status {
	path, err := exec.LookPath(b.Name)
	if err != nil {
		return Status{Name: b.Name}
	}

	status := Status{
		Name:      b.Name,
		Installed: true,
		Path:      path,
	}
	if b.VersionFlag == "" {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	res, err := exec.Run(ctx, nil, path, b.VersionFlag)
	if err == nil {
		status.Version = firstLine(string(res.Stdout))
		if status.Version == "" {
			status.Version = firstLine(string(res.Stderr))
		}
	}
	return status
}

// CheckAll runs Check for every binary in order.
func CheckAll(ctx context.Context, exec executor.Executor, bins []Binary) []Status {
	out := make([]Status, 0, len(bins))
	for _, b := range bins {
		out = append(out, Check(ctx, exec, b))
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
