package pdf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tocpharma/packing-be/internal/adapters/pdf"
	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/test/helpers"
)

func sampleReport() domain.PackingReport {
	inv := &domain.Invoice{
		DocNo:     "IV6806-00042",
		TransFlag: domain.TransFlagShipment,
		DocDate:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		CustCode:  "C-0012",
		Customer: &domain.Customer{
			Code:      "C-0012",
			Name:      "Central Pharmacy Co., Ltd.",
			Address:   "88 Hospital Road",
			Telephone: "02-555-0042",
		},
		Lines: []domain.InvoiceLine{
			{
				RowOrder:       1,
				ItemCode:       "MED-001",
				ItemName:       "Amoxicillin 500mg",
				Qty:            decimal.NewFromInt(2),
				UnitCode:       "BOX",
				RequiresSerial: true,
			},
		},
	}
	serials := []domain.ScannedSerial{
		{DocNo: inv.DocNo, DocLineNumber: 1, ItemCode: "MED-001", SerialNumber: "SN-0001"},
		{DocNo: inv.DocNo, DocLineNumber: 1, ItemCode: "MED-001", SerialNumber: "SN-0002"},
	}
	return domain.BuildPackingReport(inv, serials, &domain.Employee{Code: "EMP-07", Name: "Somchai"})
}

func TestSlipRenderer_Render(t *testing.T) {
	renderer := pdf.NewSlipRenderer(helpers.TestLogger())
	report := sampleReport()

	out, err := renderer.Render(&report)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestSlipRenderer_Render_OrphanSerialsAndNoCustomer(t *testing.T) {
	renderer := pdf.NewSlipRenderer(helpers.TestLogger())

	inv := &domain.Invoice{
		DocNo:     "IV6806-00099",
		TransFlag: domain.TransFlagShipment,
		DocDate:   time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		CustCode:  "C-0099",
	}
	serials := []domain.ScannedSerial{
		{DocNo: inv.DocNo, DocLineNumber: 9, ItemCode: "MED-777", SerialNumber: "SN-LOST"},
	}
	report := domain.BuildPackingReport(inv, serials, nil)

	out, err := renderer.Render(&report)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
