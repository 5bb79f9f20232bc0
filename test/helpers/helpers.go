// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tocpharma/packing-be/internal/adapters/db"
	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_packing",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_packing",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		SourcePath: "../../migrations",
		TableName:  "schema_migrations",
		SchemaName: "public",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-packing-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_packing",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Packing: config.PackingConfig{
			RejectDuplicateSerials: false,
			ListCacheTTL:           30 * time.Second,
			SlipDir:                "/tmp",
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret",
			JWTExpiration:     24 * time.Hour,
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestInvoice creates a shipment invoice with one serial-tracked line
func CreateTestInvoice(overrides ...func(*domain.Invoice)) *domain.Invoice {
	inv := &domain.Invoice{
		DocNo:       "IV6806-00042",
		TransFlag:   domain.TransFlagShipment,
		DocDate:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		DocTime:     "14:05",
		CustCode:    "C-0012",
		TotalAmount: decimal.NewFromFloat(1250.50),
		Customer: &domain.Customer{
			Code: "C-0012",
			Name: "Central Pharmacy Co., Ltd.",
		},
		Lines: []domain.InvoiceLine{
			{
				RowOrder:       1,
				ItemCode:       "MED-001",
				ItemName:       "Amoxicillin 500mg",
				Qty:            decimal.NewFromInt(2),
				UnitCode:       "BOX",
				Price:          decimal.NewFromFloat(625.25),
				RequiresSerial: true,
			},
		},
	}

	for _, override := range overrides {
		override(inv)
	}

	return inv
}

// CreateTestSerials creates n scanned serials against an invoice's first line
func CreateTestSerials(inv *domain.Invoice, n int) []domain.ScannedSerial {
	serials := make([]domain.ScannedSerial, 0, n)
	for i := 0; i < n; i++ {
		serials = append(serials, domain.ScannedSerial{
			DocNo:         inv.DocNo,
			TransFlag:     inv.TransFlag,
			DocLineNumber: 1,
			RowOrder:      i + 1,
			ItemCode:      inv.Lines[0].ItemCode,
			SerialNumber:  fmt.Sprintf("SN-%s-%04d", inv.DocNo, i+1),
			CustCode:      inv.CustCode,
			DocDate:       inv.DocDate,
			DocTime:       inv.DocTime,
		})
	}
	return serials
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"ic_trans_serial_number",
		"ic_trans_detail",
		"ic_trans",
		"ar_customer",
		"ic_inventory",
		"ic_serial",
		"erp_user",
		"mis_user",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}

// SeedTestInvoice seeds an invoice with its customer and lines
func SeedTestInvoice(t *testing.T, pool *pgxpool.Pool, inv *domain.Invoice) {
	t.Helper()

	ctx := context.Background()

	if inv.Customer != nil {
		_, err := pool.Exec(ctx,
			`INSERT INTO ar_customer (code, name_1, address, telephone)
			 VALUES ($1, $2, $3, $4) ON CONFLICT (code) DO NOTHING`,
			inv.Customer.Code, inv.Customer.Name, inv.Customer.Address, inv.Customer.Telephone)
		require.NoError(t, err, "Failed to seed customer")
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO ic_trans (doc_no, trans_flag, doc_date, doc_time, cust_code, total_amount)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		inv.DocNo, inv.TransFlag, inv.DocDate, inv.DocTime, inv.CustCode, inv.TotalAmount)
	require.NoError(t, err, "Failed to seed invoice")

	for _, line := range inv.Lines {
		isSerial := 0
		if line.RequiresSerial {
			isSerial = 1
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO ic_trans_detail (doc_no, trans_flag, roworder, item_code, item_name, qty, unit_code, price, is_serial_number)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			inv.DocNo, inv.TransFlag, line.RowOrder, line.ItemCode, line.ItemName,
			line.Qty, line.UnitCode, line.Price, isSerial)
		require.NoError(t, err, "Failed to seed invoice line")
	}
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
