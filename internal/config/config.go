package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"expensetracker/internal/log"
)

type Config struct {
	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Export
	CSVExportPath string

	// Logging
	LogLevel string

	// AMQP change feed, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Concurrency simulation
	SimWrites         int
	SimReaders        int
	SimReadsPerReader int
	SimWriteDelay     time.Duration
	SimReadDelay      time.Duration
}

func Load() *Config {
	cfg := &Config{
		DataBackend:   getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/BudgetsDb.db"),
		CSVExportPath: getEnv("CSV_EXPORT_PATH", "./expenses_summary.csv"),
		LogLevel:      getEnv("LOG_LEVEL", "warn"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expensetracker"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "record_changes"),

		SimWrites:         getEnvInt("SIM_WRITES", 5),
		SimReaders:        getEnvInt("SIM_READERS", 2),
		SimReadsPerReader: getEnvInt("SIM_READS_PER_READER", 3),
		SimWriteDelay:     getEnvDuration("SIM_WRITE_DELAY", 100*time.Millisecond),
		SimReadDelay:      getEnvDuration("SIM_READ_DELAY", 150*time.Millisecond),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.CSVExportPath == "" {
		errors = append(errors, "CSV export path cannot be empty")
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate simulation settings
	if c.SimWrites < 1 {
		errors = append(errors, fmt.Sprintf("invalid simulation writes %d: must be at least 1", c.SimWrites))
	}
	if c.SimReaders < 1 {
		errors = append(errors, fmt.Sprintf("invalid simulation readers %d: must be at least 1", c.SimReaders))
	}
	if c.SimReadsPerReader < 1 {
		errors = append(errors, fmt.Sprintf("invalid simulation reads per reader %d: must be at least 1", c.SimReadsPerReader))
	}
	if c.SimWriteDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid simulation write delay %v: must not be negative", c.SimWriteDelay))
	}
	if c.SimReadDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid simulation read delay %v: must not be negative", c.SimReadDelay))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// FeedEnabled reports whether record changes are published to AMQP.
func (c *Config) FeedEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
