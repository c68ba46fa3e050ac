package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/plugsession/pkg/logger"
)

const fileTempPrefix = ".tmp-"

// FileBackend stores one file per session in a directory. Writes go to a
// temporary file in the same directory that is renamed over the target, so
// concurrent readers see either the old or the new record.
type FileBackend struct {
	dir    string
	logger *slog.Logger
}

// FileOption configures a FileBackend.
type FileOption func(*FileBackend)

// WithFileLogger sets the logger for read failures.
func WithFileLogger(l *slog.Logger) FileOption {
	return func(b *FileBackend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewFileBackend creates a backend writing into dir, which must exist.
func NewFileBackend(dir string, opts ...FileOption) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: file backend path is empty", ErrConfiguration)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotDirectory, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	b := &FileBackend{
		dir:    abs,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Dir returns the absolute storage directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

// Load treats every read failure as a missing record.
func (b *FileBackend) Load(ctx context.Context, id string) ([]byte, error) {
	if err := ValidateKey(id); err != nil {
		return nil, nil
	}

	data, err := os.ReadFile(filepath.Join(b.dir, id))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			b.logger.LogAttrs(ctx, slog.LevelWarn, "failed to read session file",
				logger.SessionID(id),
				logger.Backend("file"),
				logger.Error(err),
			)
		}
		return nil, nil
	}
	return data, nil
}

func (b *FileBackend) Dump(_ context.Context, id string, data []byte) error {
	if err := ValidateKey(id); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, fileTempPrefix+id+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(b.dir, id)); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (b *FileBackend) Clear(_ context.Context, id string) error {
	if err := ValidateKey(id); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(b.dir, id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
