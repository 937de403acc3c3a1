// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings except secrets, which must be provided.
//
// # Configuration Structure
//
// Server settings:
//
//	MOCKERHUB_HOST="0.0.0.0"
//	MOCKERHUB_PORT="8080"
//	MOCKERHUB_HEALTH_PORT="9090"
//	MOCKERHUB_READ_TIMEOUT="15s"
//	MOCKERHUB_WRITE_TIMEOUT="15s"
//
// Auth settings:
//
//	MOCKERHUB_JWT_SECRET="..."            # required
//	MOCKERHUB_JWT_EXPIRY="24h"
//	MOCKERHUB_BCRYPT_COST="10"
//	MOCKERHUB_SUPERADMIN_PASSWORD=""      # empty = generate one
//	MOCKERHUB_SUPERADMIN_PASSWORD_FILE="superadmin_password.txt"
//
// Database settings:
//
//	MOCKERHUB_POSTGRES_URL="postgres://localhost/mockerhub"  # required
//	MOCKERHUB_POSTGRES_MAX_CONNS="20"
//	MOCKERHUB_POSTGRES_MIN_CONNS="2"
//
// Cache settings:
//
//	MOCKERHUB_CACHE_ENABLED="false"
//	MOCKERHUB_REDIS_URL="redis://localhost:6379"
//	MOCKERHUB_L1_CACHE_SIZE="4096"
//
// Observability settings:
//
//	MOCKERHUB_LOG_LEVEL="info"  # debug, info, warn, error
//	MOCKERHUB_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
package config
