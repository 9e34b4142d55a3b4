package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported STORE_DRIVER values.
const (
	StoreMongoDB = "mongodb"
	StoreMemory  = "memory"
)

// Supported MIRROR_SINK values.
const (
	MirrorSheets  = "sheets"
	MirrorMongoDB = "mongodb"
	MirrorNone    = "none"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	Mirror    MirrorConfig
	Sheets    SheetsConfig
	Catalog   CatalogConfig
	Webhook   WebhookConfig
	Reporting ReportingConfig
	Ledger    LedgerConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// StoreConfig selects the transaction store backend.
type StoreConfig struct {
	Driver string
}

// MirrorConfig selects where financial mirror records are written.
type MirrorConfig struct {
	Sink string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// CatalogConfig points at the product catalog service. An empty BaseURL disables prefill.
type CatalogConfig struct {
	BaseURL  string
	APIToken string
}

// WebhookConfig holds the shared secret of inbound webhooks.
type WebhookConfig struct {
	PurchaseToken string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// LedgerConfig tunes validation and projection.
type LedgerConfig struct {
	PricePolicy     string
	RequireItemCode bool
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when the environment is set directly.
		_ = godotenv.Load()
	}

	requireCode, err := getenvBool("LEDGER_REQUIRE_ITEM_CODE", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getenvWithDefault("STORE_DRIVER", StoreMongoDB)),
		},
		Mirror: MirrorConfig{
			Sink: strings.ToLower(getenvWithDefault("MIRROR_SINK", MirrorSheets)),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Catalog: CatalogConfig{
			BaseURL:  os.Getenv("CATALOG_BASE_URL"),
			APIToken: os.Getenv("CATALOG_API_TOKEN"),
		},
		Webhook: WebhookConfig{
			PurchaseToken: os.Getenv("PURCHASE_WEBHOOK_TOKEN"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Seoul"),
		},
		Ledger: LedgerConfig{
			PricePolicy:     getenvWithDefault("LEDGER_PRICE_POLICY", "store_order"),
			RequireItemCode: requireCode,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockledger"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Driver {
	case StoreMongoDB:
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER %q is not supported", c.Store.Driver)
	}

	switch c.Mirror.Sink {
	case MirrorSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	case MirrorMongoDB, MirrorNone:
	default:
		return fmt.Errorf("MIRROR_SINK %q is not supported", c.Mirror.Sink)
	}

	if c.NeedsMongoDB() && c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.Webhook.PurchaseToken == "" {
		return errors.New("PURCHASE_WEBHOOK_TOKEN must be provided")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	switch c.Ledger.PricePolicy {
	case "store_order", "latest_date":
	default:
		return fmt.Errorf("LEDGER_PRICE_POLICY %q is not supported", c.Ledger.PricePolicy)
	}

	return nil
}

// NeedsMongoDB reports whether any configured component talks to MongoDB.
func (c *Config) NeedsMongoDB() bool {
	return c.Store.Driver == StoreMongoDB || c.Mirror.Sink == MirrorMongoDB
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return parsed, nil
}
