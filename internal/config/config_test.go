package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
watch_paths = ["./src"]
index_path = "symbols.db"
log_level = "debug"

[[crates]]
name = "core"
root = "./src/lib.rs"

[exclude]
dirs = [".git"]
files = ["*.log"]

[watch]
debounce = "1s"
rescans_per_second = 4.0

[serve]
metrics_addr = "127.0.0.1:9100"

[tracing]
otlp_endpoint = "127.0.0.1:4317"
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.WatchPaths) != 1 || cfg.WatchPaths[0] != "./src" {
		t.Errorf("Unexpected WatchPaths: %v", cfg.WatchPaths)
	}
	if cfg.IndexPath != "symbols.db" {
		t.Errorf("Expected IndexPath symbols.db, got %s", cfg.IndexPath)
	}
	if len(cfg.CrateRoots) != 1 || cfg.CrateRoots[0].Name != "core" {
		t.Errorf("Unexpected CrateRoots: %v", cfg.CrateRoots)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.RescansPerSecond != 4.0 {
		t.Errorf("Expected 4 rescans per second, got %v", cfg.Watch.RescansPerSecond)
	}
	if cfg.Serve.MetricsAddr != "127.0.0.1:9100" {
		t.Errorf("Unexpected metrics addr %s", cfg.Serve.MetricsAddr)
	}
	if cfg.Tracing.OTLPEndpoint != "127.0.0.1:4317" {
		t.Errorf("Unexpected OTLP endpoint %s", cfg.Tracing.OTLPEndpoint)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte(`log_level = "warn"`))
	tmpfile.Close()

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.WatchPaths) != 1 || cfg.WatchPaths[0] != "." {
		t.Errorf("Expected default watch path, got %v", cfg.WatchPaths)
	}
	if cfg.IndexPath == "" {
		t.Error("Expected a default index path")
	}
	if cfg.Serve.MetricsAddr == "" {
		t.Error("Expected a default metrics address")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Explicit log level must survive defaults, got %s", cfg.LogLevel)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	tmpfile, _ := os.CreateTemp("", "badconfig*.toml")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte("bad = toml = format"))
	tmpfile.Close()

	_, err = Load(tmpfile.Name())
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}
