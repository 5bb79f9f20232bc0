// internal/adapters/db/packing_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
)

// packingRepository implements ports.PackingRepository over the ERP tables.
// ic_trans and ic_trans_detail are owned by the upstream order system; the
// only table written here is ic_trans_serial_number, and only by appending.
type packingRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewPackingRepository creates a new packing repository
func NewPackingRepository(db *Database, logger *slog.Logger) ports.PackingRepository {
	return &packingRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "packing")),
	}
}

const invoiceColumns = `
	t.doc_no, t.trans_flag, t.doc_date, COALESCE(t.doc_time, ''), t.cust_code,
	COALESCE(t.total_amount, 0),
	COALESCE(c.code, ''), COALESCE(c.name_1, ''), COALESCE(c.address, ''), COALESCE(c.telephone, '')`

// FindInvoice loads one shipment invoice with customer and ordered lines.
func (r *packingRepository) FindInvoice(ctx context.Context, docNo string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM ic_trans t
		LEFT JOIN ar_customer c ON c.code = t.cust_code
		WHERE t.doc_no = $1 AND t.trans_flag = $2`

	row := r.db.QueryRow(ctx, query, docNo, domain.TransFlagShipment)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query invoice: %w", err)
	}

	lines, err := r.findLines(ctx, []string{docNo})
	if err != nil {
		return nil, err
	}
	inv.Lines = lines[docNo]

	return inv, nil
}

// ListInvoices returns shipment invoices matching the filter, newest first.
func (r *packingRepository) ListInvoices(ctx context.Context, filter ports.ListFilter) ([]domain.Invoice, error) {
	builder := squirrel.
		Select(
			"t.doc_no", "t.trans_flag", "t.doc_date", "COALESCE(t.doc_time, '')", "t.cust_code",
			"COALESCE(t.total_amount, 0)",
			"COALESCE(c.code, '')", "COALESCE(c.name_1, '')", "COALESCE(c.address, '')", "COALESCE(c.telephone, '')").
		From("ic_trans t").
		LeftJoin("ar_customer c ON c.code = t.cust_code").
		Where(squirrel.Eq{"t.trans_flag": domain.TransFlagShipment}).
		OrderBy("t.doc_date DESC", "t.doc_no DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.DocNoContains != "" {
		builder = builder.Where(squirrel.ILike{"t.doc_no": "%" + filter.DocNoContains + "%"})
	}
	if filter.DateFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"t.doc_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		builder = builder.Where(squirrel.LtOrEq{"t.doc_date": *filter.DateTo})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build listing query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	docNos := make([]string, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
		docNos = append(docNos, inv.DocNo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invoices: %w", err)
	}

	if len(invoices) == 0 {
		return invoices, nil
	}

	lines, err := r.findLines(ctx, docNos)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Lines = lines[invoices[i].DocNo]
	}

	return invoices, nil
}

// findLines bulk-loads invoice lines keyed by doc_no, ordered by roworder.
func (r *packingRepository) findLines(ctx context.Context, docNos []string) (map[string][]domain.InvoiceLine, error) {
	query := `
		SELECT d.doc_no, d.roworder, d.item_code, COALESCE(d.item_name, ''),
		       COALESCE(d.qty, 0), COALESCE(d.unit_code, ''), COALESCE(d.price, 0),
		       COALESCE(d.is_serial_number, 0),
		       COALESCE(i.ic_serial_no, 0), COALESCE(i.is_pharma_serialization, 0)
		FROM ic_trans_detail d
		LEFT JOIN ic_inventory i ON i.code = d.item_code
		WHERE d.doc_no = ANY($1) AND d.trans_flag = $2
		ORDER BY d.doc_no, d.roworder ASC`

	rows, err := r.db.Query(ctx, query, docNos, domain.TransFlagShipment)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[string][]domain.InvoiceLine, len(docNos))
	for rows.Next() {
		var (
			docNo        string
			line         domain.InvoiceLine
			isSerial     int
			serialNo     int
			pharmaSerial int
		)
		if err := rows.Scan(&docNo, &line.RowOrder, &line.ItemCode, &line.ItemName,
			&line.Qty, &line.UnitCode, &line.Price, &isSerial,
			&serialNo, &pharmaSerial); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		line.RequiresSerial = isSerial == 1
		line.Product = &domain.Product{
			Code:                line.ItemCode,
			Name:                line.ItemName,
			SerialTracked:       serialNo,
			PharmaSerialization: pharmaSerial,
		}
		lines[docNo] = append(lines[docNo], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invoice lines: %w", err)
	}

	return lines, nil
}

// FindSerials returns the recorded serials of one invoice, roworder ascending.
func (r *packingRepository) FindSerials(ctx context.Context, docNo string) ([]domain.ScannedSerial, error) {
	byDoc, err := r.FindSerialsForInvoices(ctx, []string{docNo})
	if err != nil {
		return nil, err
	}
	return byDoc[docNo], nil
}

// FindSerialsForInvoices bulk-loads recorded serials keyed by doc_no.
func (r *packingRepository) FindSerialsForInvoices(ctx context.Context, docNos []string) (map[string][]domain.ScannedSerial, error) {
	serials := make(map[string][]domain.ScannedSerial, len(docNos))
	if len(docNos) == 0 {
		return serials, nil
	}

	query := `
		SELECT doc_no, trans_flag, COALESCE(doc_line_number, 0), roworder,
		       ic_code, serial_number, COALESCE(cust_code, ''),
		       doc_date, COALESCE(doc_time, '')
		FROM ic_trans_serial_number
		WHERE doc_no = ANY($1) AND trans_flag = $2
		ORDER BY doc_no, roworder ASC`

	rows, err := r.db.Query(ctx, query, docNos, domain.TransFlagShipment)
	if err != nil {
		return nil, fmt.Errorf("failed to query serials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.ScannedSerial
		if err := rows.Scan(&s.DocNo, &s.TransFlag, &s.DocLineNumber, &s.RowOrder,
			&s.ItemCode, &s.SerialNumber, &s.CustCode, &s.DocDate, &s.DocTime); err != nil {
			return nil, fmt.Errorf("failed to scan serial: %w", err)
		}
		serials[s.DocNo] = append(serials[s.DocNo], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read serials: %w", err)
	}

	return serials, nil
}

// InsertSerials appends a confirmation batch atomically. Every row carries
// the invoice's cust_code, doc_date and doc_time so the serial table can be
// reported on without joining back to ic_trans.
func (r *packingRepository) InsertSerials(ctx context.Context, inv *domain.Invoice, scans []ports.SerialScan, rejectDuplicates bool) error {
	if len(scans) == 0 {
		return nil
	}

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		if rejectDuplicates {
			serialNumbers := make([]string, len(scans))
			for i, scan := range scans {
				serialNumbers[i] = scan.SerialNumber
			}

			var existing string
			err := tx.QueryRow(ctx, `
				SELECT serial_number FROM ic_trans_serial_number
				WHERE doc_no = $1 AND trans_flag = $2 AND serial_number = ANY($3)
				LIMIT 1`,
				inv.DocNo, inv.TransFlag, serialNumbers).Scan(&existing)
			if err == nil {
				return &domain.DuplicateSerialError{DocNo: inv.DocNo, SerialNumber: existing}
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("failed to check for recorded serials: %w", err)
			}
		}

		batch := &pgx.Batch{}
		query := `
			INSERT INTO ic_trans_serial_number (
				doc_no, trans_flag, doc_line_number, ic_code, serial_number,
				cust_code, doc_date, doc_time
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

		for _, scan := range scans {
			batch.Queue(query,
				inv.DocNo, inv.TransFlag, scan.DocLineNumber, scan.ItemCode,
				scan.SerialNumber, inv.CustCode, inv.DocDate, inv.DocTime)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range scans {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("failed to insert serial: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.logger.DebugContext(ctx, "serials recorded",
		slog.String("doc_no", inv.DocNo),
		slog.Int("count", len(scans)))

	return nil
}

// scanInvoice scans one invoice row with its joined customer columns.
func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var (
		inv  domain.Invoice
		cust domain.Customer
	)
	err := row.Scan(&inv.DocNo, &inv.TransFlag, &inv.DocDate, &inv.DocTime,
		&inv.CustCode, &inv.TotalAmount,
		&cust.Code, &cust.Name, &cust.Address, &cust.Telephone)
	if err != nil {
		return nil, err
	}
	if cust.Code != "" {
		inv.Customer = &cust
	}
	return &inv, nil
}
