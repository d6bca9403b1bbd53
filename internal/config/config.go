package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the tool reads.
const EnvPrefix = "LOADPLANNER_"

type Config struct {
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Output   OutputConfig   `yaml:"output" envPrefix:"OUTPUT_"`
	Evidence EvidenceConfig `yaml:"evidence" envPrefix:"EVIDENCE_"`
	Export   ExportConfig   `yaml:"export" envPrefix:"EXPORT_"`
	Watch    WatchConfig    `yaml:"watch" envPrefix:"WATCH_"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"FORMAT"` // json, console
}

type OutputConfig struct {
	Format string `yaml:"format" env:"FORMAT"` // json, yaml
	Indent int    `yaml:"indent" env:"INDENT"`
}

type EvidenceConfig struct {
	Path string `yaml:"path" env:"PATH"` // empty disables the evidence log
}

type ExportConfig struct {
	Textfile string `yaml:"textfile" env:"TEXTFILE"` // node_exporter textfile target
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"DEBOUNCE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "console"},
		Output: OutputConfig{Format: "json", Indent: 2},
		Watch:  WatchConfig{Debounce: 200 * time.Millisecond},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// LOADPLANNER_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the tool cannot act on.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: invalid log format %q", c.Log.Format)
	}
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("config: invalid output format %q", c.Output.Format)
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		return fmt.Errorf("config: output indent must be between 0 and 8, got %d", c.Output.Indent)
	}
	if c.Watch.Debounce <= 0 {
		return errors.New("config: watch debounce must be positive")
	}
	return nil
}
