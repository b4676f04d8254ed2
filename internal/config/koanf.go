package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched, in order, for a config file.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tdoa/config.yaml",
	"/etc/tdoa/config.yml",
}

// ConfigPathEnvVar overrides the config file search with an explicit path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			DriverType:     "bb60c",
			ProfileDir:     "/var/lib/tdoa/profiles",
			DefaultUseCase: "balanced",
			CenterFreqHz:   915.0e6,
			OpenTimeout:    5 * time.Second,
		},
		Streaming: StreamingConfig{
			PoolSize:       64,
			BufferCapacity: 32768,
			DrainTimeout:   2 * time.Second,
		},
		Database: DatabaseConfig{
			Path:              "/var/lib/tdoa/signals.duckdb",
			Threads:           0, // 0 means use runtime.NumCPU()
			MemoryLimit:       "",
			CheckpointOnClose: true,
			MaintenanceWindow: 24 * time.Hour,
		},
		TileCache: TileCacheConfig{
			RootDir:       "/var/lib/tdoa/tiles",
			CompressTiles: true,
			MaxAge:        30 * 24 * time.Hour,
			SweepInterval: time.Hour,
			IndexPath:     "/var/lib/tdoa/tiles/.index",
		},
		TileServer: TileServerConfig{
			Host:               "localhost",
			Port:               8080,
			RateLimitPerMin:    120,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Downloader: DownloaderConfig{
			OriginURL:      "https://tile.openstreetmap.org",
			Workers:        4,
			RequestsPerSec: 2.0,
			RequestTimeout: 10 * time.Second,
			QueueDepth:     1024,
		},
		Report: ReportConfig{
			TemplateDir:  "/var/lib/tdoa/report-templates",
			OutputDir:    "/var/lib/tdoa/reports",
			ScheduleTick: time.Minute,
		},
		EventBus: EventBusConfig{
			Enabled: false,
			URL:     "nats://127.0.0.1:4222",
			Subject: "tdoa.events",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf assembles a Config from, in increasing priority:
//  1. built-in defaults
//  2. an optional YAML config file
//  3. environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"tileserver.cors_allowed_origins",
}

// processSliceFields turns comma-separated env values into slices for the
// handful of fields that are arrays; koanf's structs/yaml providers already
// produce slices natively, env values arrive as bare strings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps SECTION_FIELD style env vars (no prefix) to dotted koanf
// paths, e.g. DATABASE_PATH -> database.path, TILESERVER_PORT -> tileserver.port.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return key
	}
	section, field := parts[0], parts[1]
	switch section {
	case "device", "streaming", "database", "tilecache", "tileserver", "downloader", "report", "eventbus", "logging":
		return section + "." + field
	default:
		return key
	}
}
