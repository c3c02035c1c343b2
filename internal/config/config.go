package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures runtime configuration shared by the storefront and order
// services.
type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Orders    OrdersConfig
	Session   SessionConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type HTTPConfig struct {
	Port          int
	MetricsPath   string
	ShutdownGrace int
}

type DatabaseConfig struct {
	URL            string
	AutoMigrate    bool
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// OrdersConfig points the storefront at the order service.
type OrdersConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	defaultHTTPPort       = 8080
	defaultMetricsPath    = "/metrics"
	defaultShutdownGrace  = 15
	defaultMigrationsPath = "migrations"
	defaultAutoMigrate    = true
	defaultRedisAddr      = "localhost:6379"
	defaultOrdersBaseURL  = "http://localhost:8081"
	defaultOrdersTimeout  = 30 * time.Second
	defaultSessionTTL     = 30 * 24 * time.Hour
	defaultServiceVersion = "0.1.0"
	defaultEnvironment    = "development"
	defaultLogLevel       = "info"
	defaultOTelSampleRate = 1.0
)

// Load reads configuration from environment variables, applying defaults when
// needed. The service name default identifies which binary is running.
func Load(serviceName string) (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}

	dbCfg := loadDatabaseConfig()

	redisCfg, err := loadRedisConfig()
	if err != nil {
		return nil, fmt.Errorf("loading redis config: %w", err)
	}

	ordersCfg, err := loadOrdersConfig()
	if err != nil {
		return nil, fmt.Errorf("loading orders config: %w", err)
	}

	sessionCfg, err := loadSessionConfig()
	if err != nil {
		return nil, fmt.Errorf("loading session config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		HTTP:      httpCfg,
		Database:  dbCfg,
		Redis:     redisCfg,
		Orders:    ordersCfg,
		Session:   sessionCfg,
		Telemetry: telCfg,
		Service:   loadServiceConfig(serviceName),
	}, nil
}

func loadHTTPConfig() (HTTPConfig, error) {
	port := defaultHTTPPort
	if value, ok := os.LookupEnv("HTTP_PORT"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("invalid HTTP_PORT: %w", err)
		}
		port = parsed
	}

	shutdownGrace := defaultShutdownGrace
	if value, ok := os.LookupEnv("SHUTDOWN_GRACE_SECONDS"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("invalid SHUTDOWN_GRACE_SECONDS: %w", err)
		}
		shutdownGrace = parsed
	}

	metricsPath := getEnvOrDefault("METRICS_PATH", defaultMetricsPath)

	return HTTPConfig{
		Port:          port,
		MetricsPath:   metricsPath,
		ShutdownGrace: shutdownGrace,
	}, nil
}

func loadDatabaseConfig() DatabaseConfig {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = buildDatabaseURL()
	}

	autoMigrate := defaultAutoMigrate
	if value, ok := os.LookupEnv("AUTO_MIGRATE"); ok {
		autoMigrate = value == "true"
	}

	migrationsPath := getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath)

	return DatabaseConfig{
		URL:            databaseURL,
		AutoMigrate:    autoMigrate,
		MigrationsPath: migrationsPath,
	}
}

func loadRedisConfig() (RedisConfig, error) {
	db := 0
	if value, ok := os.LookupEnv("REDIS_DB"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		db = parsed
	}

	return RedisConfig{
		Addr:     getEnvOrDefault("REDIS_ADDR", defaultRedisAddr),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func loadOrdersConfig() (OrdersConfig, error) {
	timeout := defaultOrdersTimeout
	if value, ok := os.LookupEnv("ORDER_SERVICE_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return OrdersConfig{}, fmt.Errorf("invalid ORDER_SERVICE_TIMEOUT: %w", err)
		}
		timeout = parsed
	}

	return OrdersConfig{
		BaseURL: getEnvOrDefault("ORDER_SERVICE_URL", defaultOrdersBaseURL),
		Timeout: timeout,
	}, nil
}

func loadSessionConfig() (SessionConfig, error) {
	ttl := defaultSessionTTL
	if value, ok := os.LookupEnv("SESSION_TTL"); ok {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return SessionConfig{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		ttl = parsed
	}

	return SessionConfig{TTL: ttl}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", defaultLogLevel)
	otelEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	enableTracing := getBoolEnv("OTEL_ENABLE_TRACING", true)
	enableMetrics := getBoolEnv("OTEL_ENABLE_METRICS", true)

	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      logLevel,
		OTelEndpoint:  otelEndpoint,
		EnableTracing: enableTracing,
		EnableMetrics: enableMetrics,
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig(serviceName string) ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("SERVICE_NAME", serviceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func buildDatabaseURL() string {
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", "storefront")
	sslMode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbName, sslMode,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}
