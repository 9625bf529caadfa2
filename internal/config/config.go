package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level ledgerrun.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Engine   EngineConfig   `yaml:"engine"`
	Daemon   DaemonConfig   `yaml:"daemon"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig locates the ledger store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// EngineConfig holds batch-engine settings.
type EngineConfig struct {
	// Timezone is the reference location for day-boundary comparisons.
	Timezone string `yaml:"timezone"`
}

// DaemonConfig controls the long-running scheduler mode.
type DaemonConfig struct {
	// RunAt is the local time of day ("HH:MM") the daily jobs fire.
	RunAt string `yaml:"run_at"`
	// ListenAddr serves /metrics and /healthz; empty disables the server.
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a ledgerrun.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(dbPath string) *Config {
	return &Config{
		Database: DatabaseConfig{Path: dbPath},
		Engine:   EngineConfig{Timezone: "Local"},
		Daemon: DaemonConfig{
			RunAt:      "02:00",
			ListenAddr: "127.0.0.1:9464",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
