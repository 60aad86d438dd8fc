package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Game.Catalog != nil || cfg.Game.AdvanceDelay != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigGameSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[game]\ncatalog = \"/tmp/levels.yaml\"\nadvance-delay = \"2s\"\nlog-level = \"debug\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Game.Catalog == nil || *cfg.Game.Catalog != "/tmp/levels.yaml" {
		t.Fatalf("unexpected catalog: %v", cfg.Game.Catalog)
	}
	if cfg.Game.AdvanceDelay == nil || *cfg.Game.AdvanceDelay != "2s" {
		t.Fatalf("unexpected advance delay: %v", cfg.Game.AdvanceDelay)
	}
	if cfg.Game.LogLevel == nil || *cfg.Game.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Game.LogLevel)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("TUIDINER_CATALOG", "custom.yaml")
	t.Setenv("TUIDINER_ADVANCE_DELAY", "250ms")

	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Catalog != "custom.yaml" {
		t.Fatalf("expected catalog override, got %q", cfg.Catalog)
	}
	if cfg.AdvanceDelay != 250*time.Millisecond {
		t.Fatalf("expected 250ms delay, got %v", cfg.AdvanceDelay)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected unset db path, got %q", cfg.DBPath)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("TUIDINER_ADVANCE_DELAY", "soon")

	_, err := ParseEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")

	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tuidiner", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tuidiner", "tuidiner.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "tuidiner", "tuidiner.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}
