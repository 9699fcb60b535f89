package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// FileSlot stores the value in a single file, replaced atomically on every
// write.
type FileSlot struct {
	path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (s *FileSlot) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	return data, err
}

func (s *FileSlot) Write(_ context.Context, value []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	if err := renameio.WriteFile(s.path, value, 0o600); err != nil {
		return fmt.Errorf("replacing snapshot file: %w", err)
	}

	return nil
}

func (s *FileSlot) Close() error {
	return nil
}
