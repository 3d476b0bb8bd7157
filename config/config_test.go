package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	configContent := `
server:
  port: 9090
  read_timeout: 15s
workbook:
  source: minio
  minio:
    endpoint: "localhost:9000"
    access_key: "minioadmin"
    secret_key: "minioadmin"
    bucket: "contracts"
    object: "Contract Discounts.xlsx"
query:
  default_top_n: 5
  default_tolerance: 0.2
  strict_spend_units: false
log:
  level: "debug"
  format: "json"
rate_limit:
  enabled: true
  rps: 3
  burst: 6
`
	cfg, err := Load(writeConfig(t, t.TempDir(), configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Expected read_timeout 15s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Workbook.Source != SourceMinio {
		t.Errorf("Expected source minio, got %s", cfg.Workbook.Source)
	}
	if cfg.Workbook.Minio.Object != "Contract Discounts.xlsx" {
		t.Errorf("Expected object name, got %s", cfg.Workbook.Minio.Object)
	}
	if cfg.Query.DefaultTopN != 5 {
		t.Errorf("Expected default_top_n 5, got %d", cfg.Query.DefaultTopN)
	}
	if cfg.Query.DefaultTolerance != 0.2 {
		t.Errorf("Expected default_tolerance 0.2, got %g", cfg.Query.DefaultTolerance)
	}
	if cfg.Query.StrictUnits() {
		t.Error("Expected strict_spend_units to be disabled")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected log format json, got %s", cfg.Log.Format)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RPS != 3 || cfg.RateLimit.Burst != 6 {
		t.Errorf("Unexpected rate limit config: %+v", cfg.RateLimit)
	}
}

func TestLoadDefaults(t *testing.T) {
	configContent := `
workbook:
  path: "/data/contracts.xlsx"
`
	cfg, err := Load(writeConfig(t, t.TempDir(), configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected default shutdown_timeout 5s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Workbook.Source != SourceFile {
		t.Errorf("Expected default source file, got %s", cfg.Workbook.Source)
	}
	if cfg.Query.DefaultTopN != 10 {
		t.Errorf("Expected default top_n 10, got %d", cfg.Query.DefaultTopN)
	}
	if cfg.Query.DefaultTolerance != 0.1 {
		t.Errorf("Expected default tolerance 0.1, got %g", cfg.Query.DefaultTolerance)
	}
	if cfg.Query.MaxTopN != 0 {
		t.Errorf("Expected max_top_n to be unbounded by default, got %d", cfg.Query.MaxTopN)
	}
	if !cfg.Query.StrictUnits() {
		t.Error("Expected strict spend units by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected default log format text, got %s", cfg.Log.Format)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Expected default metrics path /metrics, got %s", cfg.Metrics.Path)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DISCOUNTS_WORKBOOK_PATH", "/srv/override.xlsx")
	t.Setenv("DISCOUNTS_SERVER_PORT", "7070")
	t.Setenv("DISCOUNTS_QUERY_DEFAULT_TOLERANCE", "0.25")

	cfg, err := Load(writeConfig(t, t.TempDir(), "workbook:\n  path: /data/contracts.xlsx\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Workbook.Path != "/srv/override.xlsx" {
		t.Errorf("Expected env override for workbook path, got %s", cfg.Workbook.Path)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected env override for port, got %d", cfg.Server.Port)
	}
	if cfg.Query.DefaultTolerance != 0.25 {
		t.Errorf("Expected env override for tolerance, got %g", cfg.Query.DefaultTolerance)
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "DISCOUNTS_LOG_LEVEL"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=warn\n"), 0o600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := Load(writeConfig(t, dir, "workbook:\n  path: /data/contracts.xlsx\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected log level from .env, got %s", cfg.Log.Level)
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, t.TempDir(), "invalid: yaml: content:"))
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid file source", func(c *Config) {}, false},
		{"missing path", func(c *Config) { c.Workbook.Path = "" }, true},
		{"unknown source", func(c *Config) { c.Workbook.Source = "s3" }, true},
		{"minio without object", func(c *Config) {
			c.Workbook.Source = SourceMinio
			c.Workbook.Minio = MinioConfig{Endpoint: "localhost:9000", Bucket: "contracts"}
		}, true},
		{"tolerance above one", func(c *Config) { c.Query.DefaultTolerance = 1.5 }, true},
		{"max below default", func(c *Config) { c.Query.MaxTopN = 3 }, true},
		{"negative max", func(c *Config) { c.Query.MaxTopN = -1 }, true},
		{"max above default", func(c *Config) { c.Query.MaxTopN = 50 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Workbook: WorkbookConfig{Path: "/data/contracts.xlsx"}}
			cfg.setDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
