// Package config loads application configuration from environment
// variables, with .env files applied automatically when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration.
type Config struct {
	Data      DataConfig
	Taxonomy  TaxonomyConfig
	Reconcile ReconcileConfig
	Sentinel  SentinelConfig
}

// DataConfig locates the on-disk data tree.
type DataConfig struct {
	// Dir is the root of the published datasets.
	Dir string
	// RawDir holds downloaded source PDFs and interim cell dumps.
	RawDir string
}

// TaxonomyConfig selects the alias table. An empty path selects the table
// embedded in the binary.
type TaxonomyConfig struct {
	AliasPath string
}

// ReconcileConfig tunes totals reconciliation.
type ReconcileConfig struct {
	// ToleranceCents overrides the per-family defaults when positive.
	ToleranceCents int64
}

// SentinelConfig configures the report-listing checker.
type SentinelConfig struct {
	BaseURL        string
	UserAgent      string
	TimeoutSeconds int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Data: DataConfig{
			Dir:    getEnv("PHL_DATA_DIR", "./data/processed"),
			RawDir: getEnv("PHL_RAW_DIR", "./data/raw"),
		},
		Taxonomy: TaxonomyConfig{
			AliasPath: getEnv("PHL_ALIAS_PATH", ""),
		},
		Reconcile: ReconcileConfig{
			ToleranceCents: getEnvAsInt64("PHL_TOLERANCE_CENTS", 0),
		},
		Sentinel: SentinelConfig{
			BaseURL:        getEnv("PHL_SENTINEL_BASE_URL", "https://www.phila.gov"),
			UserAgent:      getEnv("PHL_SENTINEL_USER_AGENT", "phl-budget-data/1.0"),
			TimeoutSeconds: getEnvAsInt("PHL_SENTINEL_TIMEOUT_SECONDS", 30),
		},
	}

	if cfg.Data.Dir == "" {
		return nil, fmt.Errorf("PHL_DATA_DIR must not be empty")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}
