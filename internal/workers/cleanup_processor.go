// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tocpharma/packing-be/internal/pkg/config"
)

// CleanupProcessor prunes rendered packing slips the print host no longer
// needs. Scan rows themselves are append-only and never cleaned up.
type CleanupProcessor struct {
	config *config.Config
	logger *slog.Logger
}

func NewCleanupProcessor(config *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		config: config,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupOldSlips removes slip PDFs older than 30 days from the slip dir.
func (p *CleanupProcessor) CleanupOldSlips(ctx context.Context, t *asynq.Task) error {
	slipDir := p.config.Packing.SlipDir
	maxAge := 30 * 24 * time.Hour

	p.logger.InfoContext(ctx, "cleaning up old packing slips",
		slog.String("dir", slipDir))

	var deletedCount int
	err := filepath.Walk(slipDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == ".pdf" && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete old slip",
					slog.String("file", path),
					slog.String("error", err.Error()))
			} else {
				deletedCount++
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to walk slip directory: %w", err)
	}

	p.logger.InfoContext(ctx, "old slips cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
