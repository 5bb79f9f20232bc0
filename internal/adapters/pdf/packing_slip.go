// internal/adapters/pdf/packing_slip.go
package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/tocpharma/packing-be/internal/core/domain"
)

// SlipRenderer renders a packing report into a printable A4 packing slip.
type SlipRenderer struct {
	logger *slog.Logger
}

func NewSlipRenderer(logger *slog.Logger) *SlipRenderer {
	return &SlipRenderer{
		logger: logger.With(slog.String("component", "slip_renderer")),
	}
}

// Render produces the PDF bytes for one packing report.
func (r *SlipRenderer) Render(report *domain.PackingReport) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	r.renderHeader(doc, report)
	r.renderCustomer(doc, report)
	r.renderLines(doc, report)
	r.renderFooter(doc, report)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render packing slip for %s: %w", report.Invoice.DocNo, err)
	}

	r.logger.Debug("packing slip rendered",
		slog.String("doc_no", report.Invoice.DocNo),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

func (r *SlipRenderer) renderHeader(doc *gofpdf.Fpdf, report *domain.PackingReport) {
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "PACKING SLIP", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(95, 6, fmt.Sprintf("Invoice No: %s", report.Invoice.DocNo), "", 0, "L", false, 0, "")
	doc.CellFormat(95, 6, fmt.Sprintf("Invoice Date: %s", report.Invoice.DocDate.Format("2006-01-02")), "", 1, "R", false, 0, "")
	doc.CellFormat(95, 6, fmt.Sprintf("Printed: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	doc.Ln(2)
}

func (r *SlipRenderer) renderCustomer(doc *gofpdf.Fpdf, report *domain.PackingReport) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, 6, "Deliver To", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)

	if cust := report.Invoice.Customer; cust != nil {
		doc.CellFormat(0, 5, fmt.Sprintf("%s  %s", cust.Code, cust.Name), "", 1, "L", false, 0, "")
		if cust.Address != "" {
			doc.MultiCell(0, 5, cust.Address, "", "L", false)
		}
		if cust.Telephone != "" {
			doc.CellFormat(0, 5, fmt.Sprintf("Tel: %s", cust.Telephone), "", 1, "L", false, 0, "")
		}
	} else {
		doc.CellFormat(0, 5, report.Invoice.CustCode, "", 1, "L", false, 0, "")
	}
	doc.Ln(3)
}

func (r *SlipRenderer) renderLines(doc *gofpdf.Fpdf, report *domain.PackingReport) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	doc.CellFormat(35, 7, "Item Code", "1", 0, "L", true, 0, "")
	doc.CellFormat(88, 7, "Item Name", "1", 0, "L", true, 0, "")
	doc.CellFormat(20, 7, "Qty", "1", 0, "R", true, 0, "")
	doc.CellFormat(20, 7, "Unit", "1", 1, "L", true, 0, "")

	doc.SetFont("Helvetica", "", 9)
	for _, group := range report.LineSerials {
		line := group.Line
		if line.RowOrder < 0 {
			// Serials recorded against no surviving line.
			doc.SetFont("Helvetica", "I", 9)
			doc.CellFormat(0, 6, "Unmatched scans", "1", 1, "L", false, 0, "")
			doc.SetFont("Helvetica", "", 9)
		} else {
			doc.CellFormat(12, 6, fmt.Sprintf("%d", line.RowOrder), "1", 0, "C", false, 0, "")
			doc.CellFormat(35, 6, line.ItemCode, "1", 0, "L", false, 0, "")
			doc.CellFormat(88, 6, line.ItemName, "1", 0, "L", false, 0, "")
			doc.CellFormat(20, 6, line.Qty.String(), "1", 0, "R", false, 0, "")
			doc.CellFormat(20, 6, line.UnitCode, "1", 1, "L", false, 0, "")
		}

		for _, serial := range group.Serials {
			doc.CellFormat(12, 5, "", "", 0, "C", false, 0, "")
			doc.SetFont("Courier", "", 8)
			doc.CellFormat(0, 5, serial.SerialNumber, "", 1, "L", false, 0, "")
			doc.SetFont("Helvetica", "", 9)
		}
	}
	doc.Ln(3)
}

func (r *SlipRenderer) renderFooter(doc *gofpdf.Fpdf, report *domain.PackingReport) {
	scanned := 0
	for _, group := range report.LineSerials {
		scanned += len(group.Serials)
	}

	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, fmt.Sprintf("Serialized units recorded: %d", scanned), "", 1, "L", false, 0, "")

	if report.ConfirmedBy != nil {
		doc.CellFormat(0, 6,
			fmt.Sprintf("Packed and confirmed by: %s (%s)", report.ConfirmedBy.Name, report.ConfirmedBy.Code),
			"", 1, "L", false, 0, "")
	}

	doc.Ln(8)
	doc.CellFormat(95, 6, "Checked by: ______________________", "", 0, "L", false, 0, "")
	doc.CellFormat(95, 6, "Received by: ______________________", "", 1, "L", false, 0, "")
}
