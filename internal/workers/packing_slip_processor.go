// internal/workers/packing_slip_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tocpharma/packing-be/internal/adapters/pdf"
	redis_a "github.com/tocpharma/packing-be/internal/adapters/redis_adapter"
	"github.com/tocpharma/packing-be/internal/adapters/storage"
	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
)

const (
	TypePackingSlipRender = "packing_slip:render"
	TypeCleanupOldSlips   = "cleanup:old_slips"
)

// SlipJobPayload is the payload of a packing-slip render job.
type SlipJobPayload struct {
	JobID        string `json:"job_id"`
	DocNo        string `json:"doc_no"`
	EmployeeCode string `json:"employee_code,omitempty"`
}

// renderLockTTL bounds how long a crashed worker can hold an invoice's
// render lock before another may pick the job up.
const renderLockTTL = 2 * time.Minute

// PackingSlipProcessor renders packing slips in the background and writes
// them to the slip store (local print directory, optionally S3 archive).
type PackingSlipProcessor struct {
	service  ports.PackingService
	renderer *pdf.SlipRenderer
	store    storage.SlipStore
	archive  storage.SlipStore // nil unless S3 archival is enabled
	cache    ports.CacheRepository
	logger   *slog.Logger
}

func NewPackingSlipProcessor(
	service ports.PackingService,
	renderer *pdf.SlipRenderer,
	store storage.SlipStore,
	archive storage.SlipStore,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *PackingSlipProcessor {
	return &PackingSlipProcessor{
		service:  service,
		renderer: renderer,
		store:    store,
		archive:  archive,
		cache:    cache,
		logger:   logger.With(slog.String("processor", "packing_slip")),
	}
}

// RenderSlip handles a packing_slip:render task.
func (p *PackingSlipProcessor) RenderSlip(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload SlipJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "rendering packing slip",
		slog.String("job_id", payload.JobID),
		slog.String("doc_no", payload.DocNo))

	// Reprint storms can enqueue the same invoice several times; only one
	// worker renders it, the rest retry after the lock expires.
	lockKey := redis_a.BuildKey(redis_a.PrefixSlipLock, payload.DocNo)
	locked, err := p.cache.SetNX(ctx, lockKey, payload.JobID, renderLockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire render lock for %s: %w", payload.DocNo, err)
	}
	if !locked {
		return fmt.Errorf("slip render for %s already in progress", payload.DocNo)
	}
	defer func() {
		if err := p.cache.Delete(ctx, lockKey); err != nil {
			p.logger.WarnContext(ctx, "failed to release render lock",
				slog.String("doc_no", payload.DocNo),
				slog.String("error", err.Error()))
		}
	}()

	report, err := p.service.PrintData(ctx, payload.DocNo, payload.EmployeeCode)
	if err != nil {
		if domain.IsNotFound(err) {
			// The invoice is gone; retrying will never help.
			p.logger.WarnContext(ctx, "invoice vanished before slip render",
				slog.String("doc_no", payload.DocNo))
			return fmt.Errorf("invoice %s not found: %w", payload.DocNo, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to assemble print data for %s: %w", payload.DocNo, err)
	}

	data, err := p.renderer.Render(report)
	if err != nil {
		return fmt.Errorf("failed to render slip for %s: %w", payload.DocNo, err)
	}

	name := SlipFilename(payload.DocNo)
	path, err := p.store.Save(ctx, name, data)
	if err != nil {
		return fmt.Errorf("failed to store slip for %s: %w", payload.DocNo, err)
	}

	if p.archive != nil {
		if _, err := p.archive.Save(ctx, name, data); err != nil {
			// Archival is best effort; the local copy already exists.
			p.logger.WarnContext(ctx, "failed to archive slip",
				slog.String("doc_no", payload.DocNo),
				slog.String("error", err.Error()))
		}
	}

	if _, err := p.cache.Increment(ctx, "slips:rendered:"+time.Now().Format("2006-01-02")); err != nil {
		p.logger.DebugContext(ctx, "slip counter update failed",
			slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "packing slip ready",
		slog.String("job_id", payload.JobID),
		slog.String("doc_no", payload.DocNo),
		slog.String("path", path),
		slog.Duration("took", time.Since(start)))

	return nil
}

// SlipFilename builds the stored filename for an invoice's packing slip.
func SlipFilename(docNo string) string {
	return fmt.Sprintf("packing_slip_%s.pdf", docNo)
}
