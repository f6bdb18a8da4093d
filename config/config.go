package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Catalog       CatalogConfig
	Routing       RoutingConfig
	Database      DatabaseConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// CatalogConfig controls where candidate records come from.
// An empty Path means the built-in catalog.
type CatalogConfig struct {
	Path           string
	Watch          bool
	ReloadDebounce time.Duration
}

// RoutingConfig holds defaults applied by the routing service
type RoutingConfig struct {
	// DefaultOutputTokens is the expected response size used for pre-call estimates
	DefaultOutputTokens int
	// RecordSelections stores each routing decision in the selection ledger
	RecordSelections bool
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
// When neither DATABASE_URL nor DB_HOST is set, the selection ledger is kept in memory.
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL when set
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	MetricsEnabled bool
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Catalog: CatalogConfig{
			Path:           getEnv("CATALOG_PATH", ""),
			Watch:          getEnvAsBool("CATALOG_WATCH", false),
			ReloadDebounce: getEnvAsDuration("CATALOG_RELOAD_DEBOUNCE", 200*time.Millisecond),
		},
		Routing: RoutingConfig{
			DefaultOutputTokens: getEnvAsInt("ROUTING_DEFAULT_OUTPUT_TOKENS", 500),
			RecordSelections:    getEnvAsBool("ROUTING_RECORD_SELECTIONS", true),
		},
		Database: loadDatabaseConfig(),
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}

	if c.Catalog.Watch && c.Catalog.Path == "" {
		return fmt.Errorf("catalog watch requires CATALOG_PATH")
	}
	if c.Catalog.ReloadDebounce < 0 {
		return fmt.Errorf("catalog reload debounce must not be negative")
	}

	if c.Routing.DefaultOutputTokens <= 0 {
		return fmt.Errorf("default output tokens must be positive")
	}

	// Database validation only applies when a database is configured
	if c.Database.Enabled() && c.Database.ConnectionString == "" {
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	// Observability validation
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.Observability.LogLevel)
	}
	switch strings.ToLower(c.Observability.LogFormat) {
	case "json", "console", "text":
	default:
		return fmt.Errorf("unsupported log format %q", c.Observability.LogFormat)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Enabled reports whether a PostgreSQL ledger is configured
func (c *DatabaseConfig) Enabled() bool {
	return c.ConnectionString != "" || c.Host != ""
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadDatabaseConfig loads database config from DATABASE_URL or DB_* env vars.
// DB_HOST has no default so that an unconfigured environment runs without a database.
func loadDatabaseConfig() DatabaseConfig {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return DatabaseConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", ""),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "router"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "model_router"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
