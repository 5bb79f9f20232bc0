// internal/adapters/storage/local.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LocalSlipStore keeps rendered packing slips on the local filesystem. This
// is the default archive: the shared printer host mounts the same directory.
type LocalSlipStore struct {
	baseDir string
	logger  *slog.Logger
}

var _ SlipStore = (*LocalSlipStore)(nil)

func NewLocalSlipStore(baseDir string, logger *slog.Logger) (*LocalSlipStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create slip directory %s: %w", baseDir, err)
	}
	return &LocalSlipStore{
		baseDir: baseDir,
		logger:  logger.With(slog.String("storage", "local")),
	}, nil
}

func (l *LocalSlipStore) path(name string) string {
	// Names come from invoice numbers; keep everything inside baseDir.
	return filepath.Join(l.baseDir, filepath.Base(name))
}

// Save writes the slip and returns its absolute path.
func (l *LocalSlipStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	path := l.path(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write slip %s: %w", name, err)
	}

	l.logger.InfoContext(ctx, "slip written",
		slog.String("path", path),
		slog.Int("bytes", len(data)))

	return path, nil
}

func (l *LocalSlipStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(l.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read slip %s: %w", name, err)
	}
	return data, nil
}

func (l *LocalSlipStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(l.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat slip %s: %w", name, err)
	}
	return true, nil
}

func (l *LocalSlipStore) List(ctx context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list slips: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if prefix == "" || strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (l *LocalSlipStore) Delete(ctx context.Context, name string) error {
	if err := os.Remove(l.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete slip %s: %w", name, err)
	}
	return nil
}
