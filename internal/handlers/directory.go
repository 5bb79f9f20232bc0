// internal/handlers/directory.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
)

// DirectoryHandler handles the master-data lookups the packing stations use:
// employee badge validation and product-by-serial.
type DirectoryHandler struct {
	directory ports.DirectoryService
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewDirectoryHandler(directory ports.DirectoryService, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		validate:  validator.New(),
		logger:    logger.With(slog.String("handler", "directory")),
	}
}

// ValidateEmployeeRequest is the body of POST /api/v1/employee/validate.
type ValidateEmployeeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

// ValidateEmployee handles POST /api/v1/employee/validate
func (h *DirectoryHandler) ValidateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ValidateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	employee, err := h.directory.ValidateEmployee(ctx, req.EmployeeID)
	if err != nil {
		h.respondLookupError(ctx, w, err, "employee lookup failed",
			slog.String("employee_id", req.EmployeeID))
		return
	}

	h.respondJSON(w, http.StatusOK, employee)
}

// ProductBySerialRequest is the body of POST /api/v1/product/by-serial.
type ProductBySerialRequest struct {
	SerialNumber string `json:"serial_number" validate:"required"`
}

// ProductBySerial handles POST /api/v1/product/by-serial
func (h *DirectoryHandler) ProductBySerial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProductBySerialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	product, err := h.directory.ProductBySerial(ctx, req.SerialNumber)
	if err != nil {
		h.respondLookupError(ctx, w, err, "product-by-serial lookup failed",
			slog.String("serial_number", req.SerialNumber))
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

func (h *DirectoryHandler) respondLookupError(ctx context.Context, w http.ResponseWriter, err error, msg string, attrs ...slog.Attr) {
	logAttrs := make([]any, 0, len(attrs)+1)
	for _, a := range attrs {
		logAttrs = append(logAttrs, a)
	}
	logAttrs = append(logAttrs, slog.String("error", err.Error()))

	var badReq *domain.BadRequestError
	switch {
	case errors.As(err, &badReq):
		h.respondError(w, http.StatusBadRequest, badReq.Error())
	case domain.IsNotFound(err):
		h.respondError(w, http.StatusNotFound, "Not found")
	default:
		h.logger.ErrorContext(ctx, msg, logAttrs...)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.WarnContext(ctx, msg, logAttrs...)
}

func (h *DirectoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *DirectoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
