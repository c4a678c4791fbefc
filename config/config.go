// Package config has the configuration file for the extraction pipeline
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// The study window: SIH/SUS hospitalizations from 2014 through 2023.
const (
	DefaultYearStart = 2014
	DefaultYearEnd   = 2023

	// DefaultOutputPath is the CSV consumed by the statistical analysis.
	DefaultOutputPath = "SIH_ArtriteSeptica_BrasilUFporUF.csv"

	// DefaultBaseURL points at the public mirror serving the SIH reduced
	// (RD) files converted to CSV.
	DefaultBaseURL = "https://datasus-csv.saude.gov.br/SIHSUS/RD"
)

// Config holds all application configuration
type Config struct {
	OutputPath  string
	BaseURL     string
	YearStart   int
	YearEnd     int
	LogLevel    string
	LogDir      string
	HTTPTimeout time.Duration
	RetryMax    int
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OutputPath:  getEnvWithDefault("OUTPUT_PATH", DefaultOutputPath),
		BaseURL:     getEnvWithDefault("DATASUS_BASE_URL", DefaultBaseURL),
		YearStart:   getIntEnvWithDefault("YEAR_START", DefaultYearStart),
		YearEnd:     getIntEnvWithDefault("YEAR_END", DefaultYearEnd),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		LogDir:      getEnvWithDefault("LOG_DIR", "logs"),
		HTTPTimeout: time.Duration(getIntEnvWithDefault("HTTP_TIMEOUT_SECONDS", 300)) * time.Second,
		RetryMax:    getIntEnvWithDefault("HTTP_RETRY_MAX", 3),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validateOutputPath(cfg.OutputPath); err != nil {
		return fmt.Errorf("invalid OUTPUT_PATH: %w", err)
	}

	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return fmt.Errorf("invalid DATASUS_BASE_URL: %w", err)
	}

	if err := validateYearRange(cfg.YearStart, cfg.YearEnd); err != nil {
		return err
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS: must be positive, got %s", cfg.HTTPTimeout)
	}

	if cfg.RetryMax < 0 || cfg.RetryMax > 10 {
		return fmt.Errorf("invalid HTTP_RETRY_MAX: must be between 0 and 10, got %d", cfg.RetryMax)
	}

	return nil
}

// validateOutputPath validates the OUTPUT_PATH environment variable
func validateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("OUTPUT_PATH cannot be empty")
	}

	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		return fmt.Errorf("OUTPUT_PATH must end in .csv, got: %s", path)
	}

	return nil
}

// validateBaseURL validates the DATASUS_BASE_URL environment variable
func validateBaseURL(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("DATASUS_BASE_URL cannot be empty")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("DATASUS_BASE_URL must be a valid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("DATASUS_BASE_URL must use http or https, got: %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("DATASUS_BASE_URL must include a host, got: %s", baseURL)
	}

	return nil
}

// validateYearRange validates YEAR_START and YEAR_END
func validateYearRange(start, end int) error {
	// SIH reduced files start in 2008; anything earlier uses a different layout
	if start < 2008 {
		return fmt.Errorf("invalid YEAR_START: must be 2008 or later, got %d", start)
	}

	currentYear := time.Now().Year()
	if end > currentYear {
		return fmt.Errorf("invalid YEAR_END: must not be in the future, got %d", end)
	}

	if end < start {
		return fmt.Errorf("invalid year range: YEAR_END (%d) is before YEAR_START (%d)", end, start)
	}

	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
