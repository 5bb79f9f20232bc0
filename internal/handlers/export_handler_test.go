package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/tocpharma/packing-be/internal/adapters/redis_adapter"
	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
	"github.com/tocpharma/packing-be/internal/handlers"
	"github.com/tocpharma/packing-be/test/helpers"
	"github.com/tocpharma/packing-be/test/mocks"
)

func TestExportHandler_ExportExcel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockPackingService(ctrl)
	service.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.ListParams) (*ports.ListResult, error) {
			// exports pull one large page
			assert.Equal(t, 1, params.Page)
			assert.Greater(t, params.PageSize, 1000)
			return &ports.ListResult{
				Items:      []domain.PackingSummary{*testSummary()},
				TotalCount: 1,
			}, nil
		})

	handler := handlers.NewExportHandler(service, mocks.NewMockCacheRepository(ctrl), helpers.TestLogger())

	req := httptest.NewRequest("GET", "/api/v1/export/packings.xlsx", nil)
	w := httptest.NewRecorder()

	handler.ExportExcel(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "packings_export_")
	// xlsx is a zip container
	require.Greater(t, w.Body.Len(), 4)
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestExportHandler_ExportJSON_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockPackingService(ctrl)
	service.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(&ports.ListResult{
			Items:      []domain.PackingSummary{*testSummary()},
			TotalCount: 1,
		}, nil)

	cached := make(chan struct{})
	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(redis_a.ErrCacheMiss)
	cache.EXPECT().
		Set(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ interface{}) error {
			close(cached)
			return nil
		})

	handler := handlers.NewExportHandler(service, cache, helpers.TestLogger())

	req := httptest.NewRequest("GET", "/api/v1/export/packings.json?only_completed=true", nil)
	w := httptest.NewRecorder()

	handler.ExportJSON(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "IV6806-00042")
	assert.Contains(t, w.Body.String(), "metadata")

	select {
	case <-cached:
	case <-time.After(2 * time.Second):
		t.Fatal("export was never written to the cache")
	}
}

func TestExportHandler_ExportJSON_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockPackingService(ctrl)

	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dest interface{}) error {
			*(dest.(*[]byte)) = []byte(`{"packings":[],"metadata":{"total_items":0}}`)
			return nil
		})

	handler := handlers.NewExportHandler(service, cache, helpers.TestLogger())

	req := httptest.NewRequest("GET", "/api/v1/export/packings.json", nil)
	w := httptest.NewRecorder()

	handler.ExportJSON(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "total_items")
}
