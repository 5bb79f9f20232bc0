package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tocpharma/packing-be/internal/adapters/pdf"
	redis_a "github.com/tocpharma/packing-be/internal/adapters/redis_adapter"
	"github.com/tocpharma/packing-be/internal/adapters/storage"
	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
	"github.com/tocpharma/packing-be/internal/workers"
	"github.com/tocpharma/packing-be/test/helpers"
	"github.com/tocpharma/packing-be/test/mocks"
)

func slipTask(t *testing.T, payload workers.SlipJobPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(workers.TypePackingSlipRender, data)
}

func testCache(t *testing.T) ports.CacheRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return redis_a.NewCache(client, time.Hour, helpers.TestLogger())
}

func testReport() *domain.PackingReport {
	inv := &domain.Invoice{
		DocNo:     "IV6806-00042",
		TransFlag: domain.TransFlagShipment,
		DocDate:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		CustCode:  "C-0012",
		Lines: []domain.InvoiceLine{
			{
				RowOrder:       1,
				ItemCode:       "MED-001",
				ItemName:       "Amoxicillin 500mg",
				Qty:            decimal.NewFromInt(2),
				RequiresSerial: true,
			},
		},
	}
	report := domain.BuildPackingReport(inv, []domain.ScannedSerial{
		{DocNo: inv.DocNo, DocLineNumber: 1, ItemCode: "MED-001", SerialNumber: "SN-0001"},
	}, nil)
	return &report
}

func TestPackingSlipProcessor_RenderSlip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockPackingService(ctrl)
	service.EXPECT().
		PrintData(gomock.Any(), "IV6806-00042", "EMP-07").
		Return(testReport(), nil)

	dir := t.TempDir()
	store, err := storage.NewLocalSlipStore(dir, helpers.TestLogger())
	require.NoError(t, err)

	processor := workers.NewPackingSlipProcessor(
		service,
		pdf.NewSlipRenderer(helpers.TestLogger()),
		store,
		nil,
		testCache(t),
		helpers.TestLogger(),
	)

	task := slipTask(t, workers.SlipJobPayload{
		JobID:        "job-1",
		DocNo:        "IV6806-00042",
		EmployeeCode: "EMP-07",
	})

	require.NoError(t, processor.RenderSlip(context.Background(), task))

	written, err := os.ReadFile(filepath.Join(dir, workers.SlipFilename("IV6806-00042")))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(written[:4]))
}

func TestPackingSlipProcessor_RenderSlip_HeldLockDefersJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := testCache(t)
	ctx := context.Background()

	// Another worker already owns the render lock for this invoice.
	lockKey := redis_a.BuildKey(redis_a.PrefixSlipLock, "IV6806-00042")
	locked, err := cache.SetNX(ctx, lockKey, "job-0", time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	store, err := storage.NewLocalSlipStore(t.TempDir(), helpers.TestLogger())
	require.NoError(t, err)

	processor := workers.NewPackingSlipProcessor(
		mocks.NewMockPackingService(ctrl),
		pdf.NewSlipRenderer(helpers.TestLogger()),
		store,
		nil,
		cache,
		helpers.TestLogger(),
	)

	task := slipTask(t, workers.SlipJobPayload{JobID: "job-1", DocNo: "IV6806-00042"})

	err = processor.RenderSlip(ctx, task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")

	// The losing job must not steal the lock.
	var holder string
	require.NoError(t, cache.Get(ctx, lockKey, &holder))
	assert.Equal(t, "job-0", holder)
}

func TestPackingSlipProcessor_RenderSlip_UnknownInvoiceSkipsRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockPackingService(ctrl)
	service.EXPECT().
		PrintData(gomock.Any(), "IV-MISSING", "").
		Return(nil, domain.ErrNotFound)

	store, err := storage.NewLocalSlipStore(t.TempDir(), helpers.TestLogger())
	require.NoError(t, err)

	processor := workers.NewPackingSlipProcessor(
		service,
		pdf.NewSlipRenderer(helpers.TestLogger()),
		store,
		nil,
		testCache(t),
		helpers.TestLogger(),
	)

	task := slipTask(t, workers.SlipJobPayload{JobID: "job-2", DocNo: "IV-MISSING"})

	err = processor.RenderSlip(context.Background(), task)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestPackingSlipProcessor_RenderSlip_BadPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, err := storage.NewLocalSlipStore(t.TempDir(), helpers.TestLogger())
	require.NoError(t, err)

	processor := workers.NewPackingSlipProcessor(
		mocks.NewMockPackingService(ctrl),
		pdf.NewSlipRenderer(helpers.TestLogger()),
		store,
		nil,
		testCache(t),
		helpers.TestLogger(),
	)

	task := asynq.NewTask(workers.TypePackingSlipRender, []byte("{not json"))
	assert.Error(t, processor.RenderSlip(context.Background(), task))
}
