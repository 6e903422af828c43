package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Local stores payloads as files under a configured base path. The returned
// key doubles as the path relative to that base.
type Local struct {
	basePath string
	logger   *slog.Logger
}

// NewLocal creates a local filesystem store rooted at basePath.
func NewLocal(log *slog.Logger, basePath string) *Local {
	if log == nil {
		log = slog.Default()
	}
	return &Local{
		basePath: basePath,
		logger:   log.With(slog.String("storage", "local")),
	}
}

// BasePath returns the directory the store writes under. The static image
// routes serve files straight from here.
func (s *Local) BasePath() string {
	return s.basePath
}

// Put writes the payload to a freshly generated unique filename inside the
// date-partitioned directory, creating missing directories on the way.
func (s *Local) Put(ctx context.Context, input PutInput) (string, error) {
	key := Key(input.Timestamp, input.OriginalFilename)
	target := filepath.Join(s.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("%w: create directory: %w", ErrStoreFailed, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %w", ErrStoreFailed, err)
	}
	if _, err := io.Copy(f, input.Payload); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("%w: write file: %w", ErrStoreFailed, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close file: %w", ErrStoreFailed, err)
	}

	s.logger.Debug("stored image", slog.String("key", key))
	return key, nil
}

// Reset wipes everything under the base path and recreates the empty base
// directory. Intended as a one-time startup maintenance step, not per request.
func (s *Local) Reset() error {
	if err := os.RemoveAll(s.basePath); err != nil {
		return fmt.Errorf("%w: clear base path: %w", ErrStoreFailed, err)
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return fmt.Errorf("%w: recreate base path: %w", ErrStoreFailed, err)
	}
	s.logger.Info("storage reset", slog.String("base_path", s.basePath))
	return nil
}
