// internal/core/ports/packing_repository.go
package ports

import (
	"context"
	"time"

	"github.com/tocpharma/packing-be/internal/core/domain"
)

// SerialScan is one scanned unit submitted in a shipment confirmation.
type SerialScan struct {
	ItemCode      string `json:"ic_code" validate:"required"`
	SerialNumber  string `json:"serial_number" validate:"required"`
	DocLineNumber int    `json:"doc_line_number"`
}

// ListFilter narrows the shipment-invoice listing at the store level.
// Completion is not a store concern; the service evaluates it afterwards.
type ListFilter struct {
	DocNoContains string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// PackingRepository is the persistence port for shipment invoices and their
// scanned serials. Implemented by the database adapter.
type PackingRepository interface {
	// FindInvoice loads a shipment invoice with its customer and lines,
	// ordered by roworder. Returns domain.ErrNotFound when no such invoice.
	FindInvoice(ctx context.Context, docNo string) (*domain.Invoice, error)

	// FindSerials returns the serials recorded against an invoice, ordered
	// by roworder ascending. An empty slice means nothing scanned yet.
	FindSerials(ctx context.Context, docNo string) ([]domain.ScannedSerial, error)

	// ListInvoices returns shipment invoices matching the filter, newest
	// doc_date first, each with customer and lines attached.
	ListInvoices(ctx context.Context, filter ListFilter) ([]domain.Invoice, error)

	// FindSerialsForInvoices bulk-loads recorded serials keyed by doc_no.
	FindSerialsForInvoices(ctx context.Context, docNos []string) (map[string][]domain.ScannedSerial, error)

	// InsertSerials appends a confirmation batch in a single transaction,
	// stamping every row with the invoice's cust_code, doc_date and
	// doc_time. When rejectDuplicates is set, a (doc_no, serial) pair that
	// is already recorded fails the whole batch with DuplicateSerialError.
	InsertSerials(ctx context.Context, inv *domain.Invoice, scans []SerialScan, rejectDuplicates bool) error
}

// DirectoryRepository looks up the upstream master records this service
// reads but never writes: login accounts, warehouse employees, serials.
type DirectoryRepository interface {
	FindUserByName(ctx context.Context, username string) (*domain.User, error)
	FindEmployee(ctx context.Context, code string) (*domain.Employee, error)
	FindProductBySerial(ctx context.Context, serialNumber string) (*domain.Product, error)
}
