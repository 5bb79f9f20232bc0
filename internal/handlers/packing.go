// internal/handlers/packing.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/tocpharma/packing-be/internal/adapters/pdf"
	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
	"github.com/tocpharma/packing-be/internal/workers"
)

// TaskEnqueuer is the slice of asynq.Client the handler needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PackingHandler handles the packing reconciliation HTTP surface.
type PackingHandler struct {
	service     ports.PackingService
	renderer    *pdf.SlipRenderer
	tasks       TaskEnqueuer
	slipTimeout time.Duration
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewPackingHandler creates a new packing handler. tasks may be nil when the
// async print queue is not configured; the print-job endpoint then reports 503.
// slipTimeout bounds a queued render job (PACKING_SLIP_TIMEOUT).
func NewPackingHandler(service ports.PackingService, renderer *pdf.SlipRenderer, tasks TaskEnqueuer, slipTimeout time.Duration, logger *slog.Logger) *PackingHandler {
	if slipTimeout <= 0 {
		slipTimeout = 2 * time.Minute
	}
	return &PackingHandler{
		service:     service,
		renderer:    renderer,
		tasks:       tasks,
		slipTimeout: slipTimeout,
		validate:    validator.New(),
		logger:      logger.With(slog.String("handler", "packing")),
	}
}

// ListPackings handles GET /api/v1/packings
func (h *PackingHandler) ListPackings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseListParams(r)

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list packings",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list packings")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// InvoiceDetailsRequest is the body of POST /api/v1/invoice/details.
type InvoiceDetailsRequest struct {
	InvoiceNo string `json:"invoice_no" validate:"required"`
}

// InvoiceDetails handles POST /api/v1/invoice/details
func (h *PackingHandler) InvoiceDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req InvoiceDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	summary, err := h.service.InvoiceDetails(ctx, req.InvoiceNo)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to get invoice details",
			slog.String("invoice_no", req.InvoiceNo))
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

// ConfirmShipmentRequest is the body of POST /api/v1/invoice/shipment-confirm.
type ConfirmShipmentRequest struct {
	InvoiceNo string          `json:"invoice_no" validate:"required"`
	Serials   []SerialScanDTO `json:"serialnumbers" validate:"required,min=1,dive"`
}

// SerialScanDTO is one scanned unit submitted by the packing station.
type SerialScanDTO struct {
	ItemCode      string `json:"ic_code" validate:"required"`
	SerialNumber  string `json:"serial_number" validate:"required"`
	DocLineNumber int    `json:"doc_line_number"`
}

// ConfirmShipment handles POST /api/v1/invoice/shipment-confirm
func (h *PackingHandler) ConfirmShipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ConfirmShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	scans := make([]ports.SerialScan, 0, len(req.Serials))
	for _, s := range req.Serials {
		scans = append(scans, ports.SerialScan{
			ItemCode:      s.ItemCode,
			SerialNumber:  s.SerialNumber,
			DocLineNumber: s.DocLineNumber,
		})
	}

	result, err := h.service.Confirm(ctx, req.InvoiceNo, scans)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to confirm shipment",
			slog.String("invoice_no", req.InvoiceNo),
			slog.Int("scans", len(scans)))
		return
	}

	h.logger.InfoContext(ctx, "shipment confirmed",
		slog.String("invoice_no", result.DocNo),
		slog.Int("inserted", result.Inserted),
		slog.Bool("complete", result.Status.IsComplete))

	h.respondJSON(w, http.StatusOK, result)
}

// PackingPrintData handles GET /api/v1/invoice/packing/{invoice_no}
func (h *PackingHandler) PackingPrintData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoiceNo := r.PathValue("invoice_no")
	employeeCode := r.URL.Query().Get("employee_id")

	report, err := h.service.PrintData(ctx, invoiceNo, employeeCode)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to assemble print data",
			slog.String("invoice_no", invoiceNo))
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

// PackingSlipPDF handles GET /api/v1/invoice/packing/{invoice_no}/pdf
func (h *PackingHandler) PackingSlipPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoiceNo := r.PathValue("invoice_no")
	employeeCode := r.URL.Query().Get("employee_id")

	report, err := h.service.PrintData(ctx, invoiceNo, employeeCode)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to assemble print data",
			slog.String("invoice_no", invoiceNo))
		return
	}

	data, err := h.renderer.Render(report)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render packing slip",
			slog.String("invoice_no", invoiceNo),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to render packing slip")
		return
	}

	filename := fmt.Sprintf("packing_slip_%s.pdf", sanitizeFilename(invoiceNo))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write PDF response",
			slog.String("error", err.Error()))
	}
}

// EnqueuePrintJob handles POST /api/v1/invoice/packing/{invoice_no}/print-job
func (h *PackingHandler) EnqueuePrintJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoiceNo := r.PathValue("invoice_no")

	if h.tasks == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Print queue is not available")
		return
	}

	// Fail fast on unknown invoices instead of queueing a doomed job.
	if _, err := h.service.InvoiceDetails(ctx, invoiceNo); err != nil {
		h.respondServiceError(ctx, w, err, "failed to queue print job",
			slog.String("invoice_no", invoiceNo))
		return
	}

	payload := workers.SlipJobPayload{
		JobID:        uuid.New().String(),
		DocNo:        invoiceNo,
		EmployeeCode: r.URL.Query().Get("employee_id"),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to queue print job")
		return
	}

	task := asynq.NewTask(workers.TypePackingSlipRender, data)
	info, err := h.tasks.EnqueueContext(ctx, task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(h.slipTimeout))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue packing slip job",
			slog.String("invoice_no", invoiceNo),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue print job")
		return
	}

	h.logger.InfoContext(ctx, "packing slip job queued",
		slog.String("invoice_no", invoiceNo),
		slog.String("job_id", payload.JobID),
		slog.String("task_id", info.ID))

	h.respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id":     payload.JobID,
		"invoice_no": invoiceNo,
		"status":     "queued",
	})
}

// parseListParams parses query parameters for the packings listing
func (h *PackingHandler) parseListParams(r *http.Request) ports.ListParams {
	params := ports.ListParams{
		Page:     1,
		PageSize: 50,
	}

	q := r.URL.Query()

	if page := q.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := q.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				params.PageSize = 100
			} else {
				params.PageSize = l
			}
		}
	}

	params.Search = q.Get("search")

	if from := q.Get("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			params.DateFrom = &t
		}
	}
	if to := q.Get("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			params.DateTo = &t
		}
	}

	if oc := q.Get("only_completed"); oc != "" {
		if val, err := strconv.ParseBool(oc); err == nil {
			params.OnlyCompleted = &val
		}
	}

	return params
}

// respondServiceError maps domain error kinds onto HTTP statuses.
func (h *PackingHandler) respondServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string, attrs ...slog.Attr) {
	logAttrs := make([]any, 0, len(attrs)+1)
	for _, a := range attrs {
		logAttrs = append(logAttrs, a)
	}
	logAttrs = append(logAttrs, slog.String("error", err.Error()))

	var badReq *domain.BadRequestError
	var valErr *domain.ValidationError
	var dupErr *domain.DuplicateSerialError

	switch {
	case errors.As(err, &badReq):
		h.respondError(w, http.StatusBadRequest, badReq.Error())
	case errors.As(err, &valErr):
		h.respondError(w, http.StatusBadRequest, valErr.Error())
	case errors.As(err, &dupErr):
		h.respondError(w, http.StatusConflict, dupErr.Error())
	case domain.IsNotFound(err):
		h.respondError(w, http.StatusNotFound, "Invoice not found")
	default:
		h.logger.ErrorContext(ctx, msg, logAttrs...)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.WarnContext(ctx, msg, logAttrs...)
}

func (h *PackingHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *PackingHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// validationMessage flattens the first validator error into a readable string.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
		}
		return fmt.Sprintf("%s failed validation (%s)", strings.ToLower(fe.Field()), fe.Tag())
	}
	return "Invalid request body"
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
