// internal/core/domain/packing.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransFlagShipment is the transaction-type flag the upstream ERP assigns to
// outbound sales shipments. Every invoice this service touches carries it;
// the (DocNo, TransFlag) pair is the invoice's compound key.
const TransFlagShipment = 44

// Invoice is a sales invoice owned by the upstream order-management system.
// It is read-only here: packing only records serial scans against it.
type Invoice struct {
	DocNo       string          `json:"doc_no"`
	TransFlag   int             `json:"trans_flag"`
	DocDate     time.Time       `json:"doc_date"`
	DocTime     string          `json:"doc_time,omitempty"`
	CustCode    string          `json:"cust_code"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Customer    *Customer       `json:"customer,omitempty"`
	Lines       []InvoiceLine   `json:"details"`
}

// InvoiceLine is one detail row of an invoice, ordered by RowOrder.
type InvoiceLine struct {
	RowOrder       int             `json:"roworder"`
	ItemCode       string          `json:"item_code"`
	ItemName       string          `json:"item_name"`
	Qty            decimal.Decimal `json:"qty"`
	UnitCode       string          `json:"unit_code"`
	Price          decimal.Decimal `json:"price"`
	RequiresSerial bool            `json:"requires_serial"`
	Product        *Product        `json:"product,omitempty"`
}

// ScannedSerial is one physical unit recorded against an invoice at
// confirmation time. Rows are append-only: once written they are never
// mutated or deleted by this service.
type ScannedSerial struct {
	DocNo         string    `json:"doc_no"`
	TransFlag     int       `json:"trans_flag"`
	DocLineNumber int       `json:"doc_line_number"`
	RowOrder      int       `json:"roworder"`
	ItemCode      string    `json:"ic_code"`
	SerialNumber  string    `json:"serial_number"`
	CustCode      string    `json:"cust_code,omitempty"`
	DocDate       time.Time `json:"doc_date,omitempty"`
	DocTime       string    `json:"doc_time,omitempty"`
}

// Customer mirrors the upstream ar_customer record.
type Customer struct {
	Code      string `json:"code"`
	Name      string `json:"name_1"`
	Address   string `json:"address,omitempty"`
	Telephone string `json:"telephone,omitempty"`
}

// Product mirrors the upstream ic_inventory record for lookups and print data.
type Product struct {
	Code                string `json:"code"`
	Name                string `json:"name_1"`
	SerialTracked       int    `json:"ic_serial_no"`
	PharmaSerialization int    `json:"is_pharma_serialization"`
}

// Employee mirrors the upstream erp_user record; used for audit stamping.
type Employee struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// User is a login account from mis_user.
type User struct {
	RowOrder int    `json:"roworder"`
	UserName string `json:"user_name"`
	Password string `json:"-"`
}

// PackingStatus is the completion verdict for one invoice.
type PackingStatus struct {
	RequiredCount decimal.Decimal `json:"requiredCount"`
	ScannedCount  int             `json:"scannedCount"`
	IsComplete    bool            `json:"isComplete"`
}

// RequiredSerialCount sums the quantities of the lines whose items are
// serial-tracked. Lines with RequiresSerial false contribute nothing.
func (inv *Invoice) RequiredSerialCount() decimal.Decimal {
	required := decimal.Zero
	for _, line := range inv.Lines {
		if line.RequiresSerial {
			required = required.Add(line.Qty)
		}
	}
	return required
}

// ItemCodeSet returns the set of item codes present on the invoice's lines.
// Membership in this set is what makes a scanned serial valid for the invoice.
func (inv *Invoice) ItemCodeSet() map[string]struct{} {
	codes := make(map[string]struct{}, len(inv.Lines))
	for _, line := range inv.Lines {
		codes[line.ItemCode] = struct{}{}
	}
	return codes
}

// Evaluate computes the packing completion status of an invoice given the
// serials already recorded against it. Pure: no I/O, no mutation, defined for
// any input including an invoice with no lines.
//
// An invoice is complete when it requires at least one serial and the scanned
// count has reached the requirement. An invoice with nothing serial-tracked is
// never complete: the absence of serialized items is not fulfillment.
func Evaluate(inv *Invoice, serials []ScannedSerial) PackingStatus {
	required := inv.RequiredSerialCount()
	scanned := len(serials)

	return PackingStatus{
		RequiredCount: required,
		ScannedCount:  scanned,
		IsComplete:    required.IsPositive() && decimal.NewFromInt(int64(scanned)).GreaterThanOrEqual(required),
	}
}

// PackingSummary is one row of the completed-packings listing: the invoice,
// its recorded serials, and the evaluated status.
type PackingSummary struct {
	Invoice Invoice         `json:"invoice"`
	Serials []ScannedSerial `json:"serialnumbers"`
	PackingStatus
}

// PackingReport is the denormalized print projection: the invoice with each
// recorded serial grouped under the line it was scanned against, plus the
// employee who confirmed the shipment when known.
type PackingReport struct {
	Invoice     Invoice             `json:"invoice"`
	LineSerials []ReportLineSerials `json:"line_serials"`
	ConfirmedBy *Employee           `json:"confirmed_by,omitempty"`
}

// ReportLineSerials groups the serials scanned against a single line.
type ReportLineSerials struct {
	Line    InvoiceLine     `json:"line"`
	Serials []ScannedSerial `json:"serialnumbers"`
}

// BuildPackingReport assembles the print projection from an invoice, its
// recorded serials and the optional confirming employee. Serials whose line
// number matches no line are grouped under a synthetic trailing entry so the
// report never silently drops a recorded unit. Defined for zero serials.
func BuildPackingReport(inv *Invoice, serials []ScannedSerial, confirmedBy *Employee) PackingReport {
	report := PackingReport{
		Invoice:     *inv,
		ConfirmedBy: confirmedBy,
		LineSerials: make([]ReportLineSerials, 0, len(inv.Lines)),
	}

	byLine := make(map[int][]ScannedSerial)
	var orphans []ScannedSerial
	lineNumbers := make(map[int]struct{}, len(inv.Lines))
	for _, line := range inv.Lines {
		lineNumbers[line.RowOrder] = struct{}{}
	}

	for _, s := range serials {
		if _, ok := lineNumbers[s.DocLineNumber]; ok {
			byLine[s.DocLineNumber] = append(byLine[s.DocLineNumber], s)
		} else {
			orphans = append(orphans, s)
		}
	}

	for _, line := range inv.Lines {
		report.LineSerials = append(report.LineSerials, ReportLineSerials{
			Line:    line,
			Serials: byLine[line.RowOrder],
		})
	}

	if len(orphans) > 0 {
		report.LineSerials = append(report.LineSerials, ReportLineSerials{
			Line:    InvoiceLine{RowOrder: -1},
			Serials: orphans,
		})
	}

	return report
}
