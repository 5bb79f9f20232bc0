// internal/pkg/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration, loaded once at startup.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Asynq    AsynqConfig
	AWS      AWSConfig
	Packing  PackingConfig
	Security SecurityConfig
	Server   ServerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	EnableQueryLogging bool
	MigrationPath      string
}

type RedisConfig struct {
	Host            string
	Port            string
	Password        string
	DB              int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
	TTL             time.Duration
}

type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
}

// AWSConfig configures the optional S3 archive for rendered packing slips.
// An S3Endpoint pointing at MinIO covers development.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string
	UsePathStyle    bool
	ArchiveSlips    bool
}

// PackingConfig holds the behavior switches of the reconciliation engine.
type PackingConfig struct {
	// RejectDuplicateSerials fails a confirmation batch containing a
	// serial already recorded for the invoice or repeated in the batch.
	// The legacy clients re-scan freely, so this defaults to off.
	RejectDuplicateSerials bool
	// ListCacheTTL bounds the staleness of the packings listing cache.
	ListCacheTTL time.Duration
	// SlipDir is where the worker writes rendered packing slips.
	SlipDir string
	// SlipTimeout bounds a single slip render job.
	SlipTimeout time.Duration
}

type SecurityConfig struct {
	JWTSecret         string
	JWTExpiration     time.Duration
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
}

// Load reads configuration from the environment. In development a .env file
// is honored first so a workstation needs no exported variables.
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded")
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetTypeByDefaultValue(true)
	viper.SetDefault("app.name", "packing-api")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	cfg := &Config{
		App: AppConfig{
			Name:        envStr("APP_NAME", "packing-api"),
			Environment: env,
			Version:     envStr("APP_VERSION", "dev"),
			LogLevel:    envStr("LOG_LEVEL", "debug"),
			LogFormat:   envStr("LOG_FORMAT", "json"),
			Debug:       envBool("APP_DEBUG", env == "development"),
		},
		Database: DatabaseConfig{
			Host:               envStr("DB_HOST", "localhost"),
			Port:               envStr("DB_PORT", "5432"),
			User:               envStr("DB_USER", "packing"),
			Password:           envStr("DB_PASSWORD", ""),
			Name:               envStr("DB_NAME", "packing"),
			SSLMode:            envStr("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(envInt("DB_MAX_CONNECTIONS", 25)),
			MinConnections:     int32(envInt("DB_MIN_CONNECTIONS", 5)),
			MaxConnLifetime:    envDur("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    envDur("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  envDur("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     envDur("DB_CONNECT_TIMEOUT", 10*time.Second),
			EnableQueryLogging: envBool("DB_QUERY_LOGGING", env == "development"),
			MigrationPath:      envStr("DB_MIGRATION_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Host:            envStr("REDIS_HOST", "localhost"),
			Port:            envStr("REDIS_PORT", "6379"),
			Password:        envStr("REDIS_PASSWORD", ""),
			DB:              envInt("REDIS_DB", 0),
			MaxRetries:      envInt("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: envDur("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: envDur("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			DialTimeout:     envDur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     envDur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    envDur("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:        envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    envInt("REDIS_MIN_IDLE_CONNS", 2),
			PoolTimeout:     envDur("REDIS_POOL_TIMEOUT", 4*time.Second),
			TTL:             envDur("REDIS_TTL", time.Hour),
		},
		Asynq: AsynqConfig{
			RedisAddr:       envStr("REDIS_HOST", "localhost") + ":" + envStr("REDIS_PORT", "6379"),
			RedisPassword:   envStr("REDIS_PASSWORD", ""),
			RedisDB:         envInt("ASYNQ_REDIS_DB", 0),
			Concurrency:     envInt("ASYNQ_CONCURRENCY", 10),
			Queues:          parseQueues(envStr("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:  envBool("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:        envInt("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout: envDur("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		AWS: AWSConfig{
			Region:          envStr("AWS_REGION", "ap-southeast-1"),
			AccessKeyID:     envStr("AWS_ACCESS_KEY_ID", "minioadmin"),
			SecretAccessKey: envStr("AWS_SECRET_ACCESS_KEY", "minioadmin123"),
			S3Bucket:        envStr("AWS_S3_BUCKET", "packing-slips"),
			S3Endpoint:      envStr("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    envBool("AWS_S3_PATH_STYLE", env == "development"),
			ArchiveSlips:    envBool("AWS_S3_ARCHIVE_SLIPS", false),
		},
		Packing: PackingConfig{
			RejectDuplicateSerials: envBool("PACKING_REJECT_DUPLICATE_SERIALS", false),
			ListCacheTTL:           envDur("PACKING_LIST_CACHE_TTL", 30*time.Second),
			SlipDir:                envStr("PACKING_SLIP_DIR", "/tmp/packing-slips"),
			SlipTimeout:            envDur("PACKING_SLIP_TIMEOUT", time.Minute),
		},
		Security: SecurityConfig{
			JWTSecret:         envStr("JWT_SECRET", devFallbackSecret(env)),
			JWTExpiration:     envDur("JWT_EXPIRATION", 24*time.Hour),
			RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: envDur("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    envList("ALLOWED_ORIGINS", []string{"*"}),
			SecureHeaders:     envBool("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   envStr("REQUEST_ID_HEADER", "X-Request-ID"),
		},
		Server: ServerConfig{
			Host:            envStr("SERVER_HOST", "0.0.0.0"),
			Port:            envStr("SERVER_PORT", "8080"),
			ReadTimeout:     envDur("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    envDur("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     envDur("SERVER_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes:  envInt("SERVER_MAX_HEADER_BYTES", 1<<20),
			GracefulTimeout: envDur("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that would fail at first use anyway.
func (c *Config) Validate() error {
	switch {
	case c.Database.Host == "":
		return fmt.Errorf("database host is required")
	case c.Database.Name == "":
		return fmt.Errorf("database name is required")
	case c.Server.Port == "":
		return fmt.Errorf("server port is required")
	case c.Security.JWTSecret == "" && c.App.Environment == "production":
		return fmt.Errorf("JWT secret must be set in production")
	case c.Database.MaxConnections < c.Database.MinConnections:
		return fmt.Errorf("max connections must be >= min connections")
	case c.Security.RateLimitRequests <= 0:
		return fmt.Errorf("rate limit requests must be positive")
	case c.Packing.ListCacheTTL < 0:
		return fmt.Errorf("packing list cache TTL cannot be negative")
	}
	return nil
}

// GetDatabaseURL formats the connection string for tools that take a URL
// (migrations, the seeder).
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.SSLMode,
	)
}

func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		return strings.Split(v, ",")
	}
	return fallback
}

// parseQueues reads "name:priority" pairs, e.g. "critical:6,default:3,low:1".
func parseQueues(spec string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range strings.Split(spec, ",") {
		name, prio, found := strings.Cut(pair, ":")
		if !found {
			continue
		}
		if p, err := strconv.Atoi(strings.TrimSpace(prio)); err == nil {
			queues[strings.TrimSpace(name)] = p
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}

// devFallbackSecret keeps development bootable without a JWT_SECRET while
// leaving production with no fallback at all.
func devFallbackSecret(env string) string {
	if env == "production" {
		return ""
	}
	return "development-secret-change-in-production"
}
