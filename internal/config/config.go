package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Budget service
	APIToken string
	BudgetID string
	BaseURL  string

	// Retrieval
	CacheTTL    time.Duration
	HTTPTimeout time.Duration

	// Reports
	ReportsDir       string
	ReportInterval   time.Duration
	ReportWindowDays int

	// Run archive
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror (optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		APIToken: getEnv("YNAB_API_TOKEN", ""),
		BudgetID: getEnv("YNAB_BUDGET_ID", ""),
		BaseURL:  getEnv("YNAB_BASE_URL", "https://api.ynab.com/v1"),

		CacheTTL:    getEnvDuration("CACHE_TTL", 300*time.Second),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		ReportsDir:       getEnv("REPORTS_DIR", "./reports"),
		ReportInterval:   getEnvDuration("REPORT_INTERVAL", 24*time.Hour),
		ReportWindowDays: getEnvInt("REPORT_WINDOW_DAYS", 1),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/redflag.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "redflag"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_requests"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Red Flags"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found. A missing API token is reported here so startup fails
// with remediation guidance instead of the first request failing.
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.APIToken) == "" {
		errors = append(errors, "YNAB_API_TOKEN is required: create a personal access token in the service's developer settings")
	}

	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid base URL '%s'", c.BaseURL))
		}
	}

	if c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be positive", c.CacheTTL))
	}
	if c.ReportInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid report interval %v: must be at least one minute", c.ReportInterval))
	}
	if c.ReportWindowDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid report window %d: must be at least one day", c.ReportWindowDays))
	}

	if c.ReportsDir == "" {
		errors = append(errors, "reports directory cannot be empty")
	} else {
		if _, err := os.Stat(c.ReportsDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.ReportsDir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create reports directory '%s': %v", c.ReportsDir, err))
			}
		}
	}

	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': must use amqp:// or amqps:// scheme", c.AMQPURL))
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
