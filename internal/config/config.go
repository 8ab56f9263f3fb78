package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv      string
	Port         string
	JWTSecret    string
	Database     DatabaseConfig
	Odoo         OdooConfig
	MondialRelay MondialRelayConfig
	Labels       LabelConfig
	Log          LogConfig
	Worker       WorkerConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// OdooConfig holds the ERP connection; an empty URL disables sync and write-back
type OdooConfig struct {
	URL          string
	Database     string
	Username     string
	Password     string
	SyncInterval int // in minutes
}

// MondialRelayConfig locates the helper script that talks to the carrier
type MondialRelayConfig struct {
	ScriptPath string
	NodePath   string
	URL        string
}

// LabelConfig says where generated labels are written
type LabelConfig struct {
	Dir   string
	Scope string // prefix of label file names, defaults to the database name
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level     string
	Directory string // empty logs to stderr only
}

// WorkerConfig schedules the pending shipment worker
type WorkerConfig struct {
	Enabled  bool
	Schedule string // cron spec
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	database := DatabaseConfig{
		Host:     getEnv("PG_HOST", "localhost"),
		Port:     getEnv("PG_PORT", "5432"),
		Username: getEnv("PG_USERNAME", "postgres"),
		Password: os.Getenv("PG_PASSWORD"),
		Database: getEnv("PG_DATABASE", "eckwms"),
		Alter:    getEnv("DB_ALTER", "false") == "true",
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3210"),
		JWTSecret: jwtSecret,
		Database:  database,
		Odoo: OdooConfig{
			URL:          os.Getenv("ODOO_URL"),
			Database:     os.Getenv("ODOO_DB"),
			Username:     os.Getenv("ODOO_USERNAME"),
			Password:     os.Getenv("ODOO_PASSWORD"),
			SyncInterval: getEnvInt("ODOO_SYNC_INTERVAL", 15),
		},
		MondialRelay: MondialRelayConfig{
			ScriptPath: getEnv("MONDIALRELAY_SCRIPT_PATH", "./scripts/delivery/create-mondialrelay-shipment.js"),
			NodePath:   getEnv("MONDIALRELAY_NODE_PATH", "node"),
			URL:        os.Getenv("MONDIALRELAY_URL"),
		},
		Labels: LabelConfig{
			Dir:   os.Getenv("LABELS_DIR"),
			Scope: getEnv("LABEL_SCOPE", database.Database),
		},
		Log: LogConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Directory: os.Getenv("LOGS_DIRECTORY"),
		},
		Worker: WorkerConfig{
			Enabled:  getEnv("DISPATCH_WORKER", "true") == "true",
			Schedule: getEnv("DISPATCH_SCHEDULE", "@every 1m"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
