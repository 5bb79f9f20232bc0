// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/tocpharma/packing-be/internal/adapters/redis_adapter"
	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
)

// exportPageSize caps how many packings one export pulls. The screen this
// feeds exports a day or two of shipments, far below this.
const exportPageSize = 10000

// ExportHandler produces spreadsheet and JSON exports of evaluated packings.
type ExportHandler struct {
	service ports.PackingService
	cache   ports.CacheRepository
	logger  *slog.Logger
}

func NewExportHandler(service ports.PackingService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/packings.xlsx
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseExportParams(r)

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load packings for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	data, err := h.generateExcelFile(result.Items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("packings_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("total_rows", len(result.Items)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/packings.json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseExportParams(r)

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json", h.cacheKeyFromParams(params))
	var cached []byte
	if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cached)))
		if _, err := w.Write(cached); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response",
				slog.String("error", err.Error()))
		}
		return
	}

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load packings for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	response := map[string]interface{}{
		"packings": result.Items,
		"metadata": map[string]interface{}{
			"export_date": time.Now(),
			"total_items": len(result.Items),
		},
	}

	data, err := json.Marshal(response)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.Set(cacheCtx, cacheKey, data); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export",
				slog.String("error", err.Error()))
		}
	}()
}

func (h *ExportHandler) parseExportParams(r *http.Request) ports.ListParams {
	params := ports.ListParams{
		Page:     1,
		PageSize: exportPageSize,
	}

	q := r.URL.Query()
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

// generateExcelFile writes two sheets: one row per packing and one row per
// recorded serial, the shape the warehouse supervisors reconcile against.
func (h *ExportHandler) generateExcelFile(items []domain.PackingSummary) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Packings")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range []string{
		"Invoice No", "Invoice Date", "Customer Code", "Customer Name",
		"Required", "Scanned", "Complete", "Total Amount",
	} {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, item := range items {
		row := sheet.AddRow()
		custName := ""
		if item.Invoice.Customer != nil {
			custName = item.Invoice.Customer.Name
		}
		for _, value := range []string{
			item.Invoice.DocNo,
			item.Invoice.DocDate.Format("2006-01-02"),
			item.Invoice.CustCode,
			custName,
			item.RequiredCount.String(),
			strconv.Itoa(item.ScannedCount),
			yesNo(item.IsComplete),
			item.Invoice.TotalAmount.String(),
		} {
			row.AddCell().Value = value
		}
	}
	// tealeg column indexes are 1-based
	for i := 1; i <= 8; i++ {
		sheet.SetColWidth(i, i, 18)
	}

	serialSheet, err := file.AddSheet("Serials")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	serialHeader := serialSheet.AddRow()
	for _, header := range []string{"Invoice No", "Line", "Item Code", "Serial Number"} {
		cell := serialHeader.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, item := range items {
		for _, serial := range item.Serials {
			row := serialSheet.AddRow()
			row.AddCell().Value = serial.DocNo
			row.AddCell().Value = strconv.Itoa(serial.DocLineNumber)
			row.AddCell().Value = serial.ItemCode
			row.AddCell().Value = serial.SerialNumber
		}
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func (h *ExportHandler) cacheKeyFromParams(params ports.ListParams) string {
	key := fmt.Sprintf("search_%s", params.Search)
	if params.DateFrom != nil {
		key += fmt.Sprintf("_from_%s", params.DateFrom.Format("20060102"))
	}
	if params.DateTo != nil {
		key += fmt.Sprintf("_to_%s", params.DateTo.Format("20060102"))
	}
	if params.OnlyCompleted != nil {
		key += fmt.Sprintf("_oc_%t", *params.OnlyCompleted)
	}
	return key
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
