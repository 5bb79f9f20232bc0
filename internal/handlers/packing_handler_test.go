package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tocpharma/packing-be/internal/adapters/pdf"
	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
	"github.com/tocpharma/packing-be/internal/handlers"
	"github.com/tocpharma/packing-be/test/helpers"
	"github.com/tocpharma/packing-be/test/mocks"
)

type stubEnqueuer struct {
	lastTask *asynq.Task
	lastOpts []asynq.Option
	err      error
}

func (s *stubEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastTask = task
	s.lastOpts = opts
	return &asynq.TaskInfo{ID: "task-1", Queue: "default"}, nil
}

func taskTimeout(opts []asynq.Option) (time.Duration, bool) {
	for _, opt := range opts {
		if opt.Type() == asynq.TimeoutOpt {
			d, ok := opt.Value().(time.Duration)
			return d, ok
		}
	}
	return 0, false
}

func newPackingHandler(t *testing.T, service ports.PackingService, tasks handlers.TaskEnqueuer) *handlers.PackingHandler {
	t.Helper()
	return handlers.NewPackingHandler(
		service,
		pdf.NewSlipRenderer(helpers.TestLogger()),
		tasks,
		90*time.Second,
		helpers.TestLogger(),
	)
}

func testSummary() *domain.PackingSummary {
	return &domain.PackingSummary{
		Invoice: domain.Invoice{
			DocNo:     "IV6806-00042",
			TransFlag: domain.TransFlagShipment,
			DocDate:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			CustCode:  "C-0012",
			Lines: []domain.InvoiceLine{
				{RowOrder: 1, ItemCode: "MED-001", ItemName: "Amoxicillin 500mg", Qty: decimal.NewFromInt(2), RequiresSerial: true},
			},
		},
		Serials: []domain.ScannedSerial{
			{DocNo: "IV6806-00042", DocLineNumber: 1, ItemCode: "MED-001", SerialNumber: "SN-0001"},
		},
		PackingStatus: domain.PackingStatus{
			RequiredCount: decimal.NewFromInt(2),
			ScannedCount:  1,
			IsComplete:    false,
		},
	}
}

func TestPackingHandler_ListPackings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockPackingService(ctrl)
	service.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.ListParams) (*ports.ListResult, error) {
			assert.Equal(t, "6806", params.Search)
			assert.Equal(t, 2, params.Page)
			assert.Equal(t, 20, params.PageSize)
			require.NotNil(t, params.OnlyCompleted)
			assert.False(t, *params.OnlyCompleted)
			require.NotNil(t, params.DateFrom)
			assert.Equal(t, "2025-06-01", params.DateFrom.Format("2006-01-02"))
			return &ports.ListResult{
				Items:      []domain.PackingSummary{*testSummary()},
				Page:       2,
				PageSize:   20,
				TotalCount: 21,
				TotalPages: 2,
			}, nil
		})

	handler := newPackingHandler(t, service, nil)

	req := httptest.NewRequest("GET",
		"/api/v1/packings?search=6806&page=2&limit=20&only_completed=false&date_from=2025-06-01", nil)
	w := httptest.NewRecorder()

	handler.ListPackings(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result ports.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 21, result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "IV6806-00042", result.Items[0].Invoice.DocNo)
}

func TestPackingHandler_InvoiceDetails(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.MockPackingService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "returns_details",
			body: `{"invoice_no":"IV6806-00042"}`,
			setupMock: func(m *mocks.MockPackingService) {
				m.EXPECT().
					InvoiceDetails(gomock.Any(), "IV6806-00042").
					Return(testSummary(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "IV6806-00042",
		},
		{
			name: "unknown_invoice_is_404",
			body: `{"invoice_no":"IV-MISSING"}`,
			setupMock: func(m *mocks.MockPackingService) {
				m.EXPECT().
					InvoiceDetails(gomock.Any(), "IV-MISSING").
					Return(nil, domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "not found",
		},
		{
			name:           "missing_invoice_no_is_400",
			body:           `{}`,
			setupMock:      func(m *mocks.MockPackingService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "required",
		},
		{
			name:           "malformed_body_is_400",
			body:           `{not json`,
			setupMock:      func(m *mocks.MockPackingService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := mocks.NewMockPackingService(ctrl)
			tt.setupMock(service)
			handler := newPackingHandler(t, service, nil)

			req := httptest.NewRequest("POST", "/api/v1/invoice/details",
				bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.InvoiceDetails(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestPackingHandler_ConfirmShipment(t *testing.T) {
	confirmBody := `{
		"invoice_no": "IV6806-00042",
		"serialnumbers": [
			{"ic_code": "MED-001", "serial_number": "SN-0001", "doc_line_number": 1},
			{"ic_code": "MED-001", "serial_number": "SN-0002", "doc_line_number": 1}
		]
	}`

	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.MockPackingService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "confirms_batch",
			body: confirmBody,
			setupMock: func(m *mocks.MockPackingService) {
				m.EXPECT().
					Confirm(gomock.Any(), "IV6806-00042", gomock.Len(2)).
					Return(&ports.ConfirmResult{
						DocNo:    "IV6806-00042",
						Inserted: 2,
						Status: domain.PackingStatus{
							RequiredCount: decimal.NewFromInt(2),
							ScannedCount:  2,
							IsComplete:    true,
						},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isComplete":true`,
		},
		{
			name: "foreign_item_code_is_400",
			body: confirmBody,
			setupMock: func(m *mocks.MockPackingService) {
				m.EXPECT().
					Confirm(gomock.Any(), "IV6806-00042", gomock.Any()).
					Return(nil, &domain.ValidationError{ItemCode: "MED-001", SerialNumber: "SN-0001"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "not in this invoice",
		},
		{
			name: "duplicate_serial_is_409",
			body: confirmBody,
			setupMock: func(m *mocks.MockPackingService) {
				m.EXPECT().
					Confirm(gomock.Any(), "IV6806-00042", gomock.Any()).
					Return(nil, &domain.DuplicateSerialError{DocNo: "IV6806-00042", SerialNumber: "SN-0001"})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   "already recorded",
		},
		{
			name: "unknown_invoice_is_404",
			body: confirmBody,
			setupMock: func(m *mocks.MockPackingService) {
				m.EXPECT().
					Confirm(gomock.Any(), "IV6806-00042", gomock.Any()).
					Return(nil, domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "not found",
		},
		{
			name:           "empty_serials_is_400",
			body:           `{"invoice_no":"IV6806-00042","serialnumbers":[]}`,
			setupMock:      func(m *mocks.MockPackingService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "serials",
		},
		{
			name:           "serial_without_item_code_is_400",
			body:           `{"invoice_no":"IV6806-00042","serialnumbers":[{"serial_number":"SN-1"}]}`,
			setupMock:      func(m *mocks.MockPackingService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := mocks.NewMockPackingService(ctrl)
			tt.setupMock(service)
			handler := newPackingHandler(t, service, nil)

			req := httptest.NewRequest("POST", "/api/v1/invoice/shipment-confirm",
				bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.ConfirmShipment(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestPackingHandler_PackingPrintData(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	summary := testSummary()
	report := domain.BuildPackingReport(&summary.Invoice, summary.Serials, nil)

	service := mocks.NewMockPackingService(ctrl)
	service.EXPECT().
		PrintData(gomock.Any(), "IV6806-00042", "EMP-07").
		Return(&report, nil)

	handler := newPackingHandler(t, service, nil)

	req := httptest.NewRequest("GET", "/api/v1/invoice/packing/IV6806-00042?employee_id=EMP-07", nil)
	req.SetPathValue("invoice_no", "IV6806-00042")
	w := httptest.NewRecorder()

	handler.PackingPrintData(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SN-0001")
}

func TestPackingHandler_PackingSlipPDF(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	summary := testSummary()
	report := domain.BuildPackingReport(&summary.Invoice, summary.Serials, nil)

	service := mocks.NewMockPackingService(ctrl)
	service.EXPECT().
		PrintData(gomock.Any(), "IV6806-00042", "").
		Return(&report, nil)

	handler := newPackingHandler(t, service, nil)

	req := httptest.NewRequest("GET", "/api/v1/invoice/packing/IV6806-00042/pdf", nil)
	req.SetPathValue("invoice_no", "IV6806-00042")
	w := httptest.NewRecorder()

	handler.PackingSlipPDF(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestPackingHandler_EnqueuePrintJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockPackingService(ctrl)
	service.EXPECT().
		InvoiceDetails(gomock.Any(), "IV6806-00042").
		Return(testSummary(), nil)

	enqueuer := &stubEnqueuer{}
	handler := newPackingHandler(t, service, enqueuer)

	req := httptest.NewRequest("POST", "/api/v1/invoice/packing/IV6806-00042/print-job", nil)
	req.SetPathValue("invoice_no", "IV6806-00042")
	w := httptest.NewRecorder()

	handler.EnqueuePrintJob(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "queued")
	require.NotNil(t, enqueuer.lastTask)
	assert.Contains(t, string(enqueuer.lastTask.Payload()), "IV6806-00042")

	// The render job runs with the configured slip timeout, not a built-in one.
	timeout, ok := taskTimeout(enqueuer.lastOpts)
	require.True(t, ok, "enqueued task carries no timeout option")
	assert.Equal(t, 90*time.Second, timeout)
}

func TestPackingHandler_EnqueuePrintJob_NoQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newPackingHandler(t, mocks.NewMockPackingService(ctrl), nil)

	req := httptest.NewRequest("POST", "/api/v1/invoice/packing/IV6806-00042/print-job", nil)
	req.SetPathValue("invoice_no", "IV6806-00042")
	w := httptest.NewRecorder()

	handler.EnqueuePrintJob(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
