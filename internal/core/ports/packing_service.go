// internal/core/ports/packing_service.go
package ports

import (
	"context"
	"time"

	"github.com/tocpharma/packing-be/internal/core/domain"
)

// PackingService is the application service port for packing reconciliation.
// Implemented by services.PackingService.
type PackingService interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	InvoiceDetails(ctx context.Context, docNo string) (*domain.PackingSummary, error)
	Confirm(ctx context.Context, docNo string, scans []SerialScan) (*ConfirmResult, error)
	// PrintData assembles the packing-slip projection. employeeCode is
	// optional; when set, the confirming employee is resolved and attached.
	PrintData(ctx context.Context, docNo, employeeCode string) (*domain.PackingReport, error)
}

// ListParams holds parameters for the packings listing.
// OnlyCompleted nil means the caller did not choose; the service defaults it
// to true, matching the screen this endpoint was built for.
type ListParams struct {
	Search        string
	DateFrom      *time.Time
	DateTo        *time.Time
	OnlyCompleted *bool
	Page          int
	PageSize      int
}

// ListResult holds one page of evaluated packings.
type ListResult struct {
	Items      []domain.PackingSummary `json:"items"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalCount int                     `json:"total_count"`
	TotalPages int                     `json:"total_pages"`
}

// ConfirmResult reports a successful shipment confirmation.
type ConfirmResult struct {
	DocNo    string               `json:"doc_no"`
	Inserted int                  `json:"inserted"`
	Status   domain.PackingStatus `json:"status"`
}

// DirectoryService is the application port for login and master-data lookups.
type DirectoryService interface {
	Login(ctx context.Context, username, password string) (token string, err error)
	ValidateEmployee(ctx context.Context, code string) (*domain.Employee, error)
	ProductBySerial(ctx context.Context, serialNumber string) (*domain.Product, error)
}
