package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func cleanupEnv() {
	for _, key := range []string{
		"OUTPUT_PATH", "DATASUS_BASE_URL", "YEAR_START", "YEAR_END",
		"LOG_LEVEL", "LOG_DIR", "HTTP_TIMEOUT_SECONDS", "HTTP_RETRY_MAX",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.OutputPath != DefaultOutputPath {
		t.Errorf("Expected default output path %s, got %s", DefaultOutputPath, cfg.OutputPath)
	}
	if cfg.YearStart != DefaultYearStart {
		t.Errorf("Expected default year start %d, got %d", DefaultYearStart, cfg.YearStart)
	}
	if cfg.YearEnd != DefaultYearEnd {
		t.Errorf("Expected default year end %d, got %d", DefaultYearEnd, cfg.YearEnd)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 300*time.Second {
		t.Errorf("Expected default timeout 300s, got %s", cfg.HTTPTimeout)
	}
}

func TestLoadValidConfig(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	_ = os.Setenv("OUTPUT_PATH", "saida.csv")
	_ = os.Setenv("DATASUS_BASE_URL", "http://localhost:8080/rd")
	_ = os.Setenv("YEAR_START", "2019")
	_ = os.Setenv("YEAR_END", "2021")
	_ = os.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.OutputPath != "saida.csv" {
		t.Errorf("Expected output path saida.csv, got %s", cfg.OutputPath)
	}
	if cfg.BaseURL != "http://localhost:8080/rd" {
		t.Errorf("Expected base URL http://localhost:8080/rd, got %s", cfg.BaseURL)
	}
	if cfg.YearStart != 2019 || cfg.YearEnd != 2021 {
		t.Errorf("Expected year range 2019-2021, got %d-%d", cfg.YearStart, cfg.YearEnd)
	}
}

func TestInvalidYearRange(t *testing.T) {
	testCases := []struct {
		name     string
		start    string
		end      string
		expected string
	}{
		{"start before 2008", "1997", "2020", "must be 2008 or later"},
		{"end before start", "2020", "2015", "before YEAR_START"},
		{"end in the future", "2020", "2200", "must not be in the future"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanupEnv()
			defer cleanupEnv()

			_ = os.Setenv("YEAR_START", tc.start)
			_ = os.Setenv("YEAR_END", tc.end)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for year range %s-%s, got nil", tc.start, tc.end)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got: %v", tc.expected, err)
			}
		})
	}
}

func TestInvalidBaseURL(t *testing.T) {
	testCases := []struct {
		url      string
		expected string
	}{
		{"ftp://ftp.datasus.gov.br", "must use http or https"},
		{"http://", "must include a host"},
	}

	for _, tc := range testCases {
		cleanupEnv()
		_ = os.Setenv("DATASUS_BASE_URL", tc.url)

		_, err := Load()
		if err == nil {
			t.Fatalf("Expected error for base URL %q, got nil", tc.url)
		}
		if !strings.Contains(err.Error(), tc.expected) {
			t.Errorf("Expected error containing %q for %q, got: %v", tc.expected, tc.url, err)
		}
	}
	cleanupEnv()
}

func TestInvalidOutputPath(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	_ = os.Setenv("OUTPUT_PATH", "saida.txt")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for non-CSV output path, got nil")
	}
	if !strings.Contains(err.Error(), "must end in .csv") {
		t.Errorf("Expected CSV suffix error, got: %v", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	_ = os.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL must be one of") {
		t.Errorf("Expected log level error, got: %v", err)
	}
}
