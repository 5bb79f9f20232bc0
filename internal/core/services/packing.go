// internal/core/services/packing.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
)

// PackingSettings carries the behavior switches the service reads from config.
type PackingSettings struct {
	// RejectDuplicateSerials makes Confirm fail a batch containing a
	// (doc_no, serial) pair already recorded or repeated within the batch.
	// Off by default: the upstream clients historically re-scan freely.
	RejectDuplicateSerials bool
	// ListCacheTTL bounds how stale the packings listing may be.
	ListCacheTTL time.Duration
}

// PackingService implements the packing reconciliation use cases: listing,
// invoice detail, shipment confirmation, and slip print data.
type PackingService struct {
	repo      ports.PackingRepository
	directory ports.DirectoryRepository
	cache     ports.CacheRepository
	settings  PackingSettings
	logger    *slog.Logger

	confirmLocks keyedMutex
}

var _ ports.PackingService = (*PackingService)(nil)

func NewPackingService(repo ports.PackingRepository, directory ports.DirectoryRepository,
	cache ports.CacheRepository, settings PackingSettings, logger *slog.Logger) *PackingService {
	if settings.ListCacheTTL <= 0 {
		settings.ListCacheTTL = 30 * time.Second
	}
	return &PackingService{
		repo:      repo,
		directory: directory,
		cache:     cache,
		settings:  settings,
		logger:    logger.With(slog.String("service", "packing")),
	}
}

// List returns evaluated packings matching the filters. Completion is
// computed here, not in SQL, so the evaluator stays the single source of
// truth; OnlyCompleted defaults to true when the caller does not choose.
func (s *PackingService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 50
	}
	onlyCompleted := true
	if params.OnlyCompleted != nil {
		onlyCompleted = *params.OnlyCompleted
	}

	var result ports.ListResult
	key := listCacheKey(params, onlyCompleted)
	err := s.cache.GetOrSet(ctx, key, &result, func() (interface{}, error) {
		return s.listUncached(ctx, params, onlyCompleted)
	}, s.settings.ListCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to list packings: %w", err)
	}
	return &result, nil
}

func (s *PackingService) listUncached(ctx context.Context, params ports.ListParams, onlyCompleted bool) (*ports.ListResult, error) {
	invoices, err := s.repo.ListInvoices(ctx, ports.ListFilter{
		DocNoContains: params.Search,
		DateFrom:      params.DateFrom,
		DateTo:        params.DateTo,
	})
	if err != nil {
		return nil, err
	}

	docNos := make([]string, len(invoices))
	for i := range invoices {
		docNos[i] = invoices[i].DocNo
	}
	serialsByDoc, err := s.repo.FindSerialsForInvoices(ctx, docNos)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.PackingSummary, 0, len(invoices))
	for i := range invoices {
		serials := serialsByDoc[invoices[i].DocNo]
		status := domain.Evaluate(&invoices[i], serials)
		if onlyCompleted && !status.IsComplete {
			continue
		}
		summaries = append(summaries, domain.PackingSummary{
			Invoice:       invoices[i],
			Serials:       serials,
			PackingStatus: status,
		})
	}

	total := len(summaries)
	totalPages := total / params.PageSize
	if total%params.PageSize > 0 {
		totalPages++
	}

	start := (params.Page - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return &ports.ListResult{
		Items:      summaries[start:end],
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

// InvoiceDetails returns one invoice with its recorded serials and evaluated
// status. Returns domain.ErrNotFound when the invoice does not exist.
func (s *PackingService) InvoiceDetails(ctx context.Context, docNo string) (*domain.PackingSummary, error) {
	if docNo == "" {
		return nil, &domain.BadRequestError{Field: "invoice_no", Reason: "is required"}
	}

	inv, err := s.repo.FindInvoice(ctx, docNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %s: %w", docNo, err)
	}

	serials, err := s.repo.FindSerials(ctx, docNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load serials for %s: %w", docNo, err)
	}

	return &domain.PackingSummary{
		Invoice:       *inv,
		Serials:       serials,
		PackingStatus: domain.Evaluate(inv, serials),
	}, nil
}

// Confirm records a shipment confirmation batch. Order of checks matters:
// invoice existence first, then membership of every scanned item code, then
// the atomic insert. Concurrent confirmations for the same document number
// are serialized on a per-invoice lock.
func (s *PackingService) Confirm(ctx context.Context, docNo string, scans []ports.SerialScan) (*ports.ConfirmResult, error) {
	if docNo == "" {
		return nil, &domain.BadRequestError{Field: "invoice_no", Reason: "is required"}
	}
	if len(scans) == 0 {
		return nil, &domain.BadRequestError{Field: "serialnumbers", Reason: "must not be empty"}
	}

	s.confirmLocks.lock(docNo)
	defer s.confirmLocks.unlock(docNo)

	inv, err := s.repo.FindInvoice(ctx, docNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %s: %w", docNo, err)
	}

	codes := inv.ItemCodeSet()
	seen := make(map[string]struct{}, len(scans))
	for _, scan := range scans {
		if _, ok := codes[scan.ItemCode]; !ok {
			return nil, &domain.ValidationError{ItemCode: scan.ItemCode, SerialNumber: scan.SerialNumber}
		}
		if s.settings.RejectDuplicateSerials {
			if _, dup := seen[scan.SerialNumber]; dup {
				return nil, &domain.DuplicateSerialError{DocNo: docNo, SerialNumber: scan.SerialNumber}
			}
			seen[scan.SerialNumber] = struct{}{}
		}
	}

	if err := s.repo.InsertSerials(ctx, inv, scans, s.settings.RejectDuplicateSerials); err != nil {
		return nil, fmt.Errorf("failed to record serials for %s: %w", docNo, err)
	}

	if err := s.cache.DeletePattern(ctx, "packings:*"); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate packings cache", slog.String("error", err.Error()))
	}

	serials, err := s.repo.FindSerials(ctx, docNo)
	if err != nil {
		// The batch is already committed; failing here would tell the
		// station to re-scan serials that are recorded. Answer from the
		// batch itself and let the next read recompute the full status.
		s.logger.WarnContext(ctx, "confirmation recorded but status reload failed",
			slog.String("doc_no", docNo),
			slog.String("error", err.Error()))
		return &ports.ConfirmResult{
			DocNo:    docNo,
			Inserted: len(scans),
			Status:   domain.Evaluate(inv, scansAsRecorded(docNo, scans)),
		}, nil
	}

	status := domain.Evaluate(inv, serials)
	s.logger.InfoContext(ctx, "recorded shipment confirmation",
		slog.String("doc_no", docNo),
		slog.Int("inserted", len(scans)),
		slog.Bool("complete", status.IsComplete))

	return &ports.ConfirmResult{
		DocNo:    docNo,
		Inserted: len(scans),
		Status:   status,
	}, nil
}

// PrintData assembles the denormalized packing-slip projection.
func (s *PackingService) PrintData(ctx context.Context, docNo, employeeCode string) (*domain.PackingReport, error) {
	if docNo == "" {
		return nil, &domain.BadRequestError{Field: "invoice_no", Reason: "is required"}
	}

	inv, err := s.repo.FindInvoice(ctx, docNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %s: %w", docNo, err)
	}

	serials, err := s.repo.FindSerials(ctx, docNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load serials for %s: %w", docNo, err)
	}

	var confirmedBy *domain.Employee
	if employeeCode != "" {
		confirmedBy, err = s.directory.FindEmployee(ctx, employeeCode)
		if err != nil && !domain.IsNotFound(err) {
			return nil, fmt.Errorf("failed to resolve employee %s: %w", employeeCode, err)
		}
	}

	report := domain.BuildPackingReport(inv, serials, confirmedBy)
	return &report, nil
}

// scansAsRecorded converts a confirmation batch into the serial records the
// insert produced, for evaluating a lower-bound status without a reload.
func scansAsRecorded(docNo string, scans []ports.SerialScan) []domain.ScannedSerial {
	recorded := make([]domain.ScannedSerial, len(scans))
	for i, scan := range scans {
		recorded[i] = domain.ScannedSerial{
			DocNo:         docNo,
			TransFlag:     domain.TransFlagShipment,
			DocLineNumber: scan.DocLineNumber,
			ItemCode:      scan.ItemCode,
			SerialNumber:  scan.SerialNumber,
		}
	}
	return recorded
}

func listCacheKey(params ports.ListParams, onlyCompleted bool) string {
	from, to := "", ""
	if params.DateFrom != nil {
		from = params.DateFrom.Format("2006-01-02")
	}
	if params.DateTo != nil {
		to = params.DateTo.Format("2006-01-02")
	}
	return fmt.Sprintf("packings:%s:%s:%s:%t:%d:%d",
		params.Search, from, to, onlyCompleted, params.Page, params.PageSize)
}

// keyedMutex serializes work per string key. Entries are reference-counted
// and removed once the last holder releases, so the map does not grow with
// the number of distinct document numbers ever confirmed.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedLock{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.Lock()
}

func (k *keyedMutex) unlock(key string) {
	k.mu.Lock()
	entry := k.locks[key]
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	entry.Unlock()
}
