package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Auth configuration
	Auth AuthConfig

	// Database configuration
	Database DatabaseConfig

	// Cache configuration
	Cache CacheConfig

	// Observability configuration
	Observability ObservabilityConfig

	// ImagesDir is where generated avatar images are written
	ImagesDir string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// AuthConfig holds token and password settings
type AuthConfig struct {
	// JWTSecret signs and verifies access tokens. Required.
	JWTSecret string
	JWTExpiry time.Duration

	BcryptCost int

	// SuperAdminPassword seeds the bootstrap superadmin account. When empty,
	// a random password is generated and written to SuperAdminPasswordFile.
	SuperAdminPassword     string
	SuperAdminPasswordFile string
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration
}

// CacheConfig holds Redis and in-process cache settings
type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
	L1CacheSize   int
	L1CacheTTL    time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       string
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Auth:          loadAuthConfig(),
		Database:      loadDatabaseConfig(),
		Cache:         loadCacheConfig(),
		Observability: loadObservabilityConfig(),
		ImagesDir:     getEnv("MOCKERHUB_IMAGES_DIR", "images"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("MOCKERHUB_HOST", "0.0.0.0"),
		Port:            getEnv("MOCKERHUB_PORT", "8080"),
		ReadTimeout:     getEnvDuration("MOCKERHUB_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("MOCKERHUB_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("MOCKERHUB_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("MOCKERHUB_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("MOCKERHUB_HEALTH_PORT", "9090"),
	}
}

// loadAuthConfig loads auth configuration from environment
func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:              getEnv("MOCKERHUB_JWT_SECRET", ""),
		JWTExpiry:              getEnvDuration("MOCKERHUB_JWT_EXPIRY", 24*time.Hour),
		BcryptCost:             getEnvInt("MOCKERHUB_BCRYPT_COST", bcrypt.DefaultCost),
		SuperAdminPassword:     getEnv("MOCKERHUB_SUPERADMIN_PASSWORD", ""),
		SuperAdminPasswordFile: getEnv("MOCKERHUB_SUPERADMIN_PASSWORD_FILE", "superadmin_password.txt"),
	}
}

// loadDatabaseConfig loads database configuration from environment
func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		PostgresURL:      getEnv("MOCKERHUB_POSTGRES_URL", ""),
		PostgresMaxConns: getEnvInt("MOCKERHUB_POSTGRES_MAX_CONNS", 20),
		PostgresMinConns: getEnvInt("MOCKERHUB_POSTGRES_MIN_CONNS", 2),
		PostgresTimeout:  getEnvDuration("MOCKERHUB_POSTGRES_TIMEOUT", 10*time.Second),
	}
}

// loadCacheConfig loads cache configuration from environment
func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:       getEnvBool("MOCKERHUB_CACHE_ENABLED", false),
		RedisURL:      getEnv("MOCKERHUB_REDIS_URL", "redis://localhost:6379"),
		RedisPassword: getEnv("MOCKERHUB_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("MOCKERHUB_REDIS_DB", 0),
		RedisPoolSize: getEnvInt("MOCKERHUB_REDIS_POOL_SIZE", 10),
		L1CacheSize:   getEnvInt("MOCKERHUB_L1_CACHE_SIZE", 4096),
		L1CacheTTL:    getEnvDuration("MOCKERHUB_L1_CACHE_TTL", 30*time.Second),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       getEnv("MOCKERHUB_LOG_LEVEL", "info"),
		MetricsEnabled: getEnvBool("MOCKERHUB_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	// Validate auth config
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTExpiry <= 0 {
		return fmt.Errorf("JWT expiry must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Auth.SuperAdminPassword == "" && c.Auth.SuperAdminPasswordFile == "" {
		return fmt.Errorf("superadmin password file is required when no password is configured")
	}

	// Validate database config
	if c.Database.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	// Validate cache config
	if c.Cache.Enabled {
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("redis URL is required when cache is enabled")
		}
		if c.Cache.L1CacheSize <= 0 {
			return fmt.Errorf("L1 cache size must be positive when cache is enabled")
		}
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Observability.LogLevel)
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
