// cmd/seeder/main.go
//
// Seeds a development database with the upstream ERP shapes the API reads:
// shipment invoices (trans_flag 44) with detail lines, partially scanned
// serials, and the master tables behind the lookups. Intended for local
// environments only.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tocpharma/packing-be/internal/pkg/config"
	"github.com/tocpharma/packing-be/internal/pkg/logger"
)

const transFlagShipment = 44

type product struct {
	code           string
	name           string
	serialTracked  int
	serialized     int
	unit           string
	price          decimal.Decimal
}

var products = []product{
	{"MED-001", "Amoxicillin 500mg (30 caps)", 1, 1, "BOX", decimal.NewFromInt(120)},
	{"MED-002", "Paracetamol 500mg (100 tabs)", 0, 0, "BOT", decimal.NewFromInt(45)},
	{"MED-003", "Insulin Glargine 100IU/ml", 1, 1, "VIAL", decimal.NewFromInt(890)},
	{"MED-004", "Omeprazole 20mg (14 caps)", 1, 1, "BOX", decimal.NewFromInt(160)},
	{"MED-005", "Normal Saline 0.9% 1000ml", 0, 0, "BAG", decimal.NewFromInt(32)},
	{"MED-006", "Atorvastatin 40mg (30 tabs)", 1, 1, "BOX", decimal.NewFromInt(350)},
	{"MED-007", "Salbutamol Inhaler 100mcg", 1, 1, "PCS", decimal.NewFromInt(210)},
	{"MED-008", "Gauze Pads 10x10cm (100)", 0, 0, "PKT", decimal.NewFromInt(85)},
}

var customers = [][3]string{
	{"C-0001", "Bangkok Central Pharmacy", "02-555-0101"},
	{"C-0002", "Siriraj Hospital Dispensary", "02-555-0102"},
	{"C-0003", "Chiang Mai Drugstore Co.", "053-555-0103"},
	{"C-0004", "Phuket Health Supplies", "076-555-0104"},
	{"C-0005", "Khon Kaen Medical Center", "043-555-0105"},
}

var employees = [][2]string{
	{"EMP-01", "Somchai Jaidee"},
	{"EMP-02", "Malee Srisuk"},
	{"EMP-03", "Anan Thongchai"},
	{"EMP-07", "Nok Chaiyaporn"},
}

func main() {
	invoiceCount := flag.Int("invoices", 50, "number of shipment invoices to create")
	clear := flag.Bool("clear", false, "truncate the tables before seeding")
	seed := flag.Int64("seed", 1, "random seed, fixed for reproducible data")
	flag.Parse()

	slogger := logger.SetupLogger("info", "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.IsProduction() {
		slogger.Error("refusing to seed a production database")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.GetDatabaseURL())
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if *clear {
		if err := truncateAll(ctx, pool); err != nil {
			slogger.Error("failed to truncate tables", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slogger.Info("tables truncated")
	}

	rng := rand.New(rand.NewSource(*seed))

	if err := seedMasterData(ctx, pool); err != nil {
		slogger.Error("failed to seed master data", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("master data seeded",
		slog.Int("customers", len(customers)),
		slog.Int("products", len(products)),
		slog.Int("employees", len(employees)))

	scanned, err := seedInvoices(ctx, pool, rng, *invoiceCount)
	if err != nil {
		slogger.Error("failed to seed invoices", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger.Info("seeding complete",
		slog.Int("invoices", *invoiceCount),
		slog.Int("serials_scanned", scanned))
}

func truncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		TRUNCATE ic_trans_serial_number, ic_trans_detail, ic_trans,
		         ic_serial, ic_inventory, ar_customer, erp_user, mis_user`)
	return err
}

func seedMasterData(ctx context.Context, pool *pgxpool.Pool) error {
	batch := &pgx.Batch{}

	for _, c := range customers {
		batch.Queue(`
			INSERT INTO ar_customer (code, name_1, telephone)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO UPDATE SET name_1 = EXCLUDED.name_1`,
			c[0], c[1], c[2])
	}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO ic_inventory (code, name_1, ic_serial_no, is_pharma_serialization)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO UPDATE SET name_1 = EXCLUDED.name_1`,
			p.code, p.name, p.serialTracked, p.serialized)
	}
	for _, e := range employees {
		batch.Queue(`
			INSERT INTO erp_user (code, name_1)
			VALUES ($1, $2)
			ON CONFLICT (code) DO UPDATE SET name_1 = EXCLUDED.name_1`,
			e[0], e[1])
	}
	batch.Queue(`
		INSERT INTO mis_user (user_name, password)
		VALUES ('admin', 'admin123')
		ON CONFLICT (user_name) DO NOTHING`)
	batch.Queue(`
		INSERT INTO mis_user (user_name, password)
		VALUES ('station1', 'station1')
		ON CONFLICT (user_name) DO NOTHING`)

	results := pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("master batch statement %d: %w", i, err)
		}
	}
	return nil
}

// seedInvoices creates shipment invoices with 1-4 lines each. Roughly half
// are fully scanned, a quarter partially, the rest untouched, so both sides
// of the completed filter have data.
func seedInvoices(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, count int) (int, error) {
	totalScanned := 0
	now := time.Now()

	for i := 0; i < count; i++ {
		docNo := fmt.Sprintf("IV%02d%02d-%05d", now.Year()%100+43, now.Month(), i+1)
		docDate := now.AddDate(0, 0, -rng.Intn(30))
		docTime := fmt.Sprintf("%02d:%02d", 8+rng.Intn(9), rng.Intn(60))
		cust := customers[rng.Intn(len(customers))][0]

		tx, err := pool.Begin(ctx)
		if err != nil {
			return totalScanned, err
		}

		lineCount := 1 + rng.Intn(4)
		total := decimal.Zero
		type line struct {
			roworder int
			prod     product
			qty      int
		}
		lines := make([]line, 0, lineCount)
		for l := 0; l < lineCount; l++ {
			p := products[rng.Intn(len(products))]
			qty := 1 + rng.Intn(5)
			lines = append(lines, line{roworder: l + 1, prod: p, qty: qty})
			total = total.Add(p.price.Mul(decimal.NewFromInt(int64(qty))))
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO ic_trans (doc_no, trans_flag, doc_date, doc_time, cust_code, total_amount)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (doc_no, trans_flag) DO NOTHING`,
			docNo, transFlagShipment, docDate, docTime, cust, total); err != nil {
			tx.Rollback(ctx)
			return totalScanned, fmt.Errorf("invoice %s: %w", docNo, err)
		}

		for _, l := range lines {
			if _, err := tx.Exec(ctx, `
				INSERT INTO ic_trans_detail
					(doc_no, trans_flag, roworder, item_code, item_name, qty, unit_code, price, is_serial_number)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (doc_no, trans_flag, roworder) DO NOTHING`,
				docNo, transFlagShipment, l.roworder, l.prod.code, l.prod.name,
				l.qty, l.prod.unit, l.prod.price, l.prod.serialTracked); err != nil {
				tx.Rollback(ctx)
				return totalScanned, fmt.Errorf("invoice %s line %d: %w", docNo, l.roworder, err)
			}
		}

		// 0 = none, 1 = partial, 2..3 = full
		scanMode := rng.Intn(4)
		for _, l := range lines {
			if l.prod.serialTracked == 0 || scanMode == 0 {
				continue
			}
			toScan := l.qty
			if scanMode == 1 {
				toScan = rng.Intn(l.qty)
			}
			for s := 0; s < toScan; s++ {
				serial := fmt.Sprintf("SN-%s-%d-%04d", l.prod.code, l.roworder, rng.Intn(100000))
				if _, err := tx.Exec(ctx, `
					INSERT INTO ic_serial (serial_number, ic_code, status)
					VALUES ($1, $2, 1)
					ON CONFLICT (serial_number, ic_code) DO NOTHING`,
					serial, l.prod.code); err != nil {
					tx.Rollback(ctx)
					return totalScanned, err
				}
				if _, err := tx.Exec(ctx, `
					INSERT INTO ic_trans_serial_number
						(doc_no, trans_flag, doc_line_number, ic_code, serial_number, cust_code, doc_date, doc_time)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
					docNo, transFlagShipment, l.roworder, l.prod.code, serial,
					cust, docDate, docTime); err != nil {
					tx.Rollback(ctx)
					return totalScanned, err
				}
				totalScanned++
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return totalScanned, fmt.Errorf("invoice %s commit: %w", docNo, err)
		}
	}

	return totalScanned, nil
}
