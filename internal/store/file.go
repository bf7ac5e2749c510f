package store

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
	"time"

	"github.com/gofrs/flock"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
)

const DefaultFile = "jobs.json"

// FileStore keeps the list as an indented JSON array. Writes go to a temp
// file that is renamed over the target, under an inter-process file lock.
type FileStore struct {
	path string
	lock *flock.Flock
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored list. A missing, unreadable or corrupt file yields
// an empty list and no error.
func (s *FileStore) Load(_ context.Context) ([]jobs.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("store: failed to read job file", "path", s.path, "error", err)
		}
		return []jobs.Record{}, nil
	}

	var list []jobs.Record
	if err := json.Unmarshal(data, &list); err != nil {
		slog.Warn("store: failed to parse job file", "path", s.path, "error", err)
		return []jobs.Record{}, nil
	}
	if list == nil {
		list = []jobs.Record{}
	}
	return list, nil
}

func (s *FileStore) Save(ctx context.Context, list []jobs.Record) error {
	if list == nil {
		list = []jobs.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encoding jobs: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	locked, err := s.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("locking %s: %w", s.path, err)
	}
	if !locked {
		return fmt.Errorf("locking %s: not acquired", s.path)
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("finalizing %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
