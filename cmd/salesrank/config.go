package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// defaultConfigFile is picked up from the working directory when --config is
// not given.
const defaultConfigFile = "salesrank.yml"

// Config is the CLI configuration, merged from built-in defaults, the YAML
// config file, and SALESRANK_* environment variables. Later sources win.
type Config struct {
	Log    LogConfig    `yaml:"log" envconfig:"LOG"`
	Export ExportConfig `yaml:"export" envconfig:"EXPORT"`
}

// LogConfig controls the structured logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// ExportConfig holds defaults for report table export. Dir empty means no
// export unless the report command's --export-dir flag is set.
type ExportConfig struct {
	Dir         string `yaml:"dir" envconfig:"DIR"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv tsv xlsx"`
	Compression string `yaml:"compression" envconfig:"COMPRESSION" validate:"oneof=none gz gzip xz zst zstd"`
	BOM         bool   `yaml:"bom" envconfig:"BOM"`
}

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Export: ExportConfig{
			Format:      "csv",
			Compression: "none",
		},
	}
}

// LoadConfig loads configuration from the given file path. An empty path
// means the default salesrank.yml, which may be absent; an explicit path
// must exist. Environment variables are applied after the file so they take
// precedence.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path) //nolint:gosec // caller-chosen config path
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file, defaults apply.
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := envconfig.Process("SALESRANK", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the merged configuration.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
