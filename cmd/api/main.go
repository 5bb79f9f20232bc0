// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/tocpharma/packing-be/internal/adapters/db"
	"github.com/tocpharma/packing-be/internal/adapters/pdf"
	redis_a "github.com/tocpharma/packing-be/internal/adapters/redis_adapter"
	"github.com/tocpharma/packing-be/internal/core/ports"
	"github.com/tocpharma/packing-be/internal/core/services"
	"github.com/tocpharma/packing-be/internal/handlers"
	"github.com/tocpharma/packing-be/internal/handlers/middleware"
	"github.com/tocpharma/packing-be/internal/pkg/config"
	"github.com/tocpharma/packing-be/internal/pkg/logger"
	"github.com/tocpharma/packing-be/internal/pkg/token"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting packing reconciliation API",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if !cfg.IsProduction() {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database         *db.Database
	redisClient      *redis.Client
	redisCache       ports.CacheRepository
	asynqClient      *asynq.Client
	asynqInspector   *asynq.Inspector
	tokenMaker       *token.Maker
	packingService   *services.PackingService
	directoryService *services.DirectoryService
	packingHandler   *handlers.PackingHandler
	authHandler      *handlers.AuthHandler
	directoryHandler *handlers.DirectoryHandler
	exportHandler    *handlers.ExportHandler
	healthHandler    *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	maker, err := token.NewMaker(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token maker: %w", err)
	}
	deps.tokenMaker = maker

	packingRepo := db.NewPackingRepository(database, logger)
	directoryRepo := db.NewDirectoryRepository(database, logger)

	deps.packingService = services.NewPackingService(packingRepo, directoryRepo, deps.redisCache,
		services.PackingSettings{
			RejectDuplicateSerials: cfg.Packing.RejectDuplicateSerials,
			ListCacheTTL:           cfg.Packing.ListCacheTTL,
		}, logger)
	deps.directoryService = services.NewDirectoryService(directoryRepo, maker, logger)

	slipRenderer := pdf.NewSlipRenderer(logger)

	deps.packingHandler = handlers.NewPackingHandler(deps.packingService, slipRenderer, deps.asynqClient, cfg.Packing.SlipTimeout, logger)
	deps.authHandler = handlers.NewAuthHandler(deps.directoryService, logger)
	deps.directoryHandler = handlers.NewDirectoryHandler(deps.directoryService, logger)
	deps.exportHandler = handlers.NewExportHandler(deps.packingService, deps.redisCache, logger)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}
	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logger(logger)(handler)
	handler = middleware.RequestID(handler)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Public endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	mux.HandleFunc("POST "+apiV1+"/auth/login", deps.authHandler.Login)

	// Everything below requires a bearer token
	authed := http.NewServeMux()

	authed.HandleFunc("GET "+apiV1+"/packings", deps.packingHandler.ListPackings)
	authed.HandleFunc("POST "+apiV1+"/invoice/details", deps.packingHandler.InvoiceDetails)
	authed.HandleFunc("POST "+apiV1+"/invoice/shipment-confirm", deps.packingHandler.ConfirmShipment)
	authed.HandleFunc("GET "+apiV1+"/invoice/packing/{invoice_no}", deps.packingHandler.PackingPrintData)
	authed.HandleFunc("GET "+apiV1+"/invoice/packing/{invoice_no}/pdf", deps.packingHandler.PackingSlipPDF)
	authed.HandleFunc("POST "+apiV1+"/invoice/packing/{invoice_no}/print-job", deps.packingHandler.EnqueuePrintJob)

	authed.HandleFunc("POST "+apiV1+"/employee/validate", deps.directoryHandler.ValidateEmployee)
	authed.HandleFunc("POST "+apiV1+"/product/by-serial", deps.directoryHandler.ProductBySerial)

	authed.HandleFunc("GET "+apiV1+"/export/packings.xlsx", deps.exportHandler.ExportExcel)
	authed.HandleFunc("GET "+apiV1+"/export/packings.json", deps.exportHandler.ExportJSON)

	mux.Handle(apiV1+"/", middleware.Authenticate(deps.tokenMaker)(authed))
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
