package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/itsmostafa/gobf/internal/bf"
	"github.com/itsmostafa/gobf/internal/logs"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted when the matching flag is not set
const (
	EnvConfig   = "GOBF_CONFIG"
	EnvEOF      = "GOBF_EOF"
	EnvLogLevel = "GOBF_LOG_LEVEL"
)

// Config holds interpreter settings. Precedence is flag, then env, then file,
// then Default.
type Config struct {
	Mode     bf.TranslateMode `yaml:"mode"`
	Cursor   bf.CursorPolicy  `yaml:"cursor"`
	EOF      bf.EOFPolicy     `yaml:"eof"`
	Encoding bf.Encoding      `yaml:"encoding"`
	MaxSteps int              `yaml:"max_steps"`
	LogLevel string           `yaml:"log_level"`
	LogFile  string           `yaml:"log_file"`
	Journal  bool             `yaml:"journal"`
}

// Default returns the reference behavior: strict translation, fail-fast
// cursor and input, code point output
func Default() Config {
	return Config{
		Mode:     bf.Strict,
		Cursor:   bf.CursorFail,
		EOF:      bf.EOFFail,
		Encoding: bf.EncodingCodepoint,
		LogLevel: "warn",
	}
}

// Load reads a YAML config file over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays values from the environment
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvEOF); v != "" {
		c.EOF = bf.EOFPolicy(v)
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks every enumerated setting
func (c *Config) Validate() error {
	var errs []error
	var err error

	if c.Mode, err = bf.ParseTranslateMode(string(c.Mode)); err != nil {
		errs = append(errs, err)
	}
	if c.Cursor, err = bf.ParseCursorPolicy(string(c.Cursor)); err != nil {
		errs = append(errs, err)
	}
	if c.EOF, err = bf.ParseEOFPolicy(string(c.EOF)); err != nil {
		errs = append(errs, err)
	}
	switch c.Encoding {
	case "":
		c.Encoding = bf.EncodingCodepoint
	case bf.EncodingCodepoint, bf.EncodingRaw:
	default:
		errs = append(errs, fmt.Errorf("unknown encoding: %q (valid options: codepoint, raw)", c.Encoding))
	}
	if c.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max steps must not be negative, got %d", c.MaxSteps))
	}
	if _, err := logs.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LogOptions returns the logger options for this configuration
func (c Config) LogOptions() logs.Options {
	return logs.Options{
		Level:   c.LogLevel,
		File:    c.LogFile,
		Journal: c.Journal,
	}
}
