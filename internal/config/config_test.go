package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8084" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.RemoteBaseURL == "" {
		t.Error("remote base url default missing")
	}
	if cfg.DatabaseDSN != "" {
		t.Errorf("dsn default = %q, want empty", cfg.DatabaseDSN)
	}
	if cfg.SubmitRateLimit <= 0 || cfg.SubmitRateWindow <= 0 {
		t.Errorf("rate limit defaults = %d/%ds", cfg.SubmitRateLimit, cfg.SubmitRateWindow)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_PORT", "9090")
	t.Setenv("CATALOG_REMOTE_BASE_URL", "http://localhost:7000")
	t.Setenv("CATALOG_METRICS_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.RemoteBaseURL != "http://localhost:7000" {
		t.Errorf("remote base url = %q", cfg.RemoteBaseURL)
	}
	if !cfg.MetricsEnabled {
		t.Error("metrics_enabled override ignored")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogd.yaml")
	body := []byte("port: \"7070\"\nremote_base_url: http://remote.test\nsubmit_rate_limit: 3\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" || cfg.RemoteBaseURL != "http://remote.test" || cfg.SubmitRateLimit != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadRemoteURL(t *testing.T) {
	t.Setenv("CATALOG_REMOTE_BASE_URL", "not-a-url")

	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for relative remote url")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}
