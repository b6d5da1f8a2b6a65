package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"nadcal/internal/event"
	"nadcal/internal/workspace"
)

// FileBackend keeps each collection in its own JSON file under Dir.
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileBackend{Dir: dir}, nil
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.Dir, workspace.StoreFileName(key))
}

func (b *FileBackend) Read(_ context.Context, key string) ([]event.Event, error) {
	raw, err := os.ReadFile(b.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	return decodeCollection(raw)
}

// Write replaces the file through a rename so a failed write never leaves
// a truncated collection behind.
func (b *FileBackend) Write(_ context.Context, key string, events []event.Event) error {
	raw, err := encodeCollection(events)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.Dir, ".events-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.Path(key)); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }
