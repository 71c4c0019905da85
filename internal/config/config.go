package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	CrateRoots []CrateRoot `toml:"crates"`
	WatchPaths []string    `toml:"watch_paths"`
	IndexPath  string      `toml:"index_path"`
	Exclude    Exclude     `toml:"exclude"`
	Watch      Watch       `toml:"watch"`
	Serve      Serve       `toml:"serve"`
	Tracing    Tracing     `toml:"tracing"`
	LogLevel   string      `toml:"log_level"`
}

// CrateRoot names one crate and its root source file.
type CrateRoot struct {
	Name string `toml:"name"`
	Root string `toml:"root"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// RescansPerSecond caps how often file changes may trigger a rescan.
	RescansPerSecond float64 `toml:"rescans_per_second"`
}

type Serve struct {
	MetricsAddr string `toml:"metrics_addr"`
}

type Tracing struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerSecond == 0 {
		cfg.Watch.RescansPerSecond = 2
	}
	if len(cfg.WatchPaths) == 0 {
		cfg.WatchPaths = []string{"."}
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = "lodestar-index.db"
	}
	if cfg.Serve.MetricsAddr == "" {
		cfg.Serve.MetricsAddr = "127.0.0.1:9464"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"**/.git", "**/target"}
	}
}
