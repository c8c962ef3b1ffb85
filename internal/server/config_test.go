package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/design-loan-quote/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body size, got %d", cfg.BodySizeBytes())
	}
	if cfg.RateLimit.Requests != constants.DefaultRateLimitRequests {
		t.Fatalf("expected default rate limit, got %d", cfg.RateLimit.Requests)
	}
	if cfg.RateLimit.WindowDuration() != time.Minute {
		t.Fatalf("expected one minute window, got %s", cfg.RateLimit.WindowDuration())
	}
	if cfg.PreviewRows != constants.DefaultPreviewRows {
		t.Fatalf("expected default preview rows, got %d", cfg.PreviewRows)
	}
	if cfg.Storage.Driver != constants.StorageDriverMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.Storage.Driver)
	}
	if cfg.CurrencySymbol != constants.DefaultCurrencySymbol {
		t.Fatalf("expected default currency symbol, got %q", cfg.CurrencySymbol)
	}
	if cfg.CatalogFile != "" {
		t.Fatalf("expected no catalog file, got %q", cfg.CatalogFile)
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BodySizeBytes() <= 0 {
		t.Fatalf("expected positive body size, got %d", cfg.BodySizeBytes())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxBodySize: 1M
previewRows: 6
currencySymbol: "$"
catalogFile: config.yaml
rateLimit:
  requests: 5
  window: 30s
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
storage:
  driver: sqlite
  dsn: /var/lib/loan-quote/catalog.db
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.BodySizeBytes() != 1024*1024 {
		t.Fatalf("expected body size override, got %d", cfg.BodySizeBytes())
	}
	if cfg.PreviewRows != 6 {
		t.Fatalf("expected preview rows 6, got %d", cfg.PreviewRows)
	}
	if cfg.CurrencySymbol != "$" {
		t.Fatalf("expected currency symbol override, got %s", cfg.CurrencySymbol)
	}
	if cfg.CatalogFile != "config.yaml" {
		t.Fatalf("expected catalog file override, got %s", cfg.CatalogFile)
	}
	if cfg.RateLimit.Requests != 5 || cfg.RateLimit.WindowDuration() != 30*time.Second {
		t.Fatalf("expected rate limit 5 per 30s, got %d per %s", cfg.RateLimit.Requests, cfg.RateLimit.WindowDuration())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.DSN != "/var/lib/loan-quote/catalog.db" {
		t.Fatalf("expected sqlite storage override, got %+v", cfg.Storage)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"bad body size", "maxBodySize: invalid"},
		{"bad window", "rateLimit:\n  window: soon"},
		{"negative window", "rateLimit:\n  window: -1m"},
		{"malformed yaml", "address: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error but got nil")
			}
		})
	}
}

func TestSetBodySizeBytes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetBodySizeBytes(2048)
	if cfg.BodySizeBytes() != 2048 || cfg.MaxBodySize != "2048" {
		t.Fatalf("expected override to 2048, got %d (%s)", cfg.BodySizeBytes(), cfg.MaxBodySize)
	}
	cfg.SetBodySizeBytes(0)
	if cfg.BodySizeBytes() != 2048 {
		t.Fatalf("non-positive size should be ignored, got %d", cfg.BodySizeBytes())
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxBodySizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, input := range []string{"1G", "1TB", "abc"} {
		if _, err := ParseSize(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
