package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/firstpriority/website/internal/model"
)

// FileNames maps each submission kind to its file under the data directory.
var FileNames = map[model.Kind]string{
	model.KindContact: "messages.json",
	model.KindHiring:  "applications.json",
}

// FileSubmissionRepository stores each kind as a pretty-printed JSON array
// in its own file. Appends are read-modify-write: the whole array is read,
// extended and written back through a temp file and rename. A mutex
// serializes appends within the process; separate processes sharing the
// directory are not coordinated.
type FileSubmissionRepository struct {
	dir string
	mu  sync.Mutex
}

// NewFileSubmissionRepository creates a repository rooted at dir. The
// directory is created on first write if it does not exist.
func NewFileSubmissionRepository(dir string) *FileSubmissionRepository {
	return &FileSubmissionRepository{dir: dir}
}

var (
	_ SubmissionRepository = (*FileSubmissionRepository)(nil)
	_ HealthChecker        = (*FileSubmissionRepository)(nil)
)

// Path returns the file backing kind.
func (r *FileSubmissionRepository) Path(kind model.Kind) (string, error) {
	name, ok := FileNames[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return filepath.Join(r.dir, name), nil
}

// Append adds sub to the file for kind. Content that cannot be read or does
// not parse as an array is discarded and replaced by a one-element array;
// whatever was there before is lost. Only write failures are returned, each
// wrapping ErrStoreWrite.
func (r *FileSubmissionRepository) Append(_ context.Context, kind model.Kind, sub model.Submission) error {
	path, err := r.Path(kind)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := readRecords(path)
	if err != nil {
		slog.Warn("fallback file unreadable, starting a new array",
			"kind", kind, "file", filepath.Base(path), "error", err)
		records = nil
	}
	records = append(records, sub)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStoreWrite, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return nil
}

// List returns the stored submissions for kind. A missing file is an empty
// collection; a corrupt file yields ErrCorrupt.
func (r *FileSubmissionRepository) List(_ context.Context, kind model.Kind) ([]model.Submission, error) {
	path, err := r.Path(kind)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Submission{}
	}
	return records, nil
}

// Ping verifies that the data directory exists (creating it if needed) and
// accepts new files.
func (r *FileSubmissionRepository) Ping(_ context.Context) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	f, err := os.CreateTemp(r.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("data dir not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// readRecords returns (nil, nil) when path does not exist.
func readRecords(path string) ([]model.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrCorrupt
	}
	var records []model.Submission
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return records, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
