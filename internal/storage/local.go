package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// Storage keeps uploaded media keyed by file name.
type Storage interface {
	Save(ctx context.Context, name string, data io.Reader) (string, error)
	Locate(ctx context.Context, name string) (string, error)
	CheckWritable(ctx context.Context) error
}

// LocalStorage stores files flat in a single directory on local disk. A
// second upload under the same name replaces the first.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates dir if it does not exist yet.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Dir() string { return s.dir }

// Save streams data to <dir>/<name> and returns that path. The bytes land in
// a temp file first and are renamed into place, so concurrent writers of the
// same name never interleave; the last rename wins.
func (s *LocalStorage) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(s.dir, name)
	tmp := filepath.Join(s.dir, fmt.Sprintf(".%s.%s.part", name, uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	if err := ctx.Err(); err != nil {
		os.Remove(tmp)
		return "", err
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("move %s into place: %w", name, err)
	}
	return dest, nil
}

// Locate returns the on-disk path of a previously saved file, or ErrNotFound.
// Names that could never have been saved are reported as not found too.
func (s *LocalStorage) Locate(_ context.Context, name string) (string, error) {
	if _, err := CleanName(name); err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// CheckWritable verifies a file can be created in the upload directory.
func (s *LocalStorage) CheckWritable(_ context.Context) error {
	f, err := os.CreateTemp(s.dir, ".writecheck-*")
	if err != nil {
		return fmt.Errorf("upload dir not writable: %w", err)
	}
	f.Close()
	return os.Remove(f.Name())
}

// CleanName accepts only plain file names: no directory components, no
// relative references and no NUL bytes.
func CleanName(name string) (string, error) {
	switch {
	case name == "", name == ".", name == "..":
		return "", ErrInvalidName
	case name != filepath.Base(name):
		return "", ErrInvalidName
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 || name[i] == '/' || name[i] == '\\' {
			return "", ErrInvalidName
		}
	}
	return name, nil
}
