package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/virtuallist/internal/logging"
	"github.com/rshade/virtuallist/internal/throttle"
	"github.com/rshade/virtuallist/internal/window"
)

// SchemaVersion is the config schema written by this build.
const SchemaVersion = "1.0.0"

// supportedSchema is the range of schema versions this build can read.
const supportedSchema = "^1.0.0"

// configFileName is the file name used for both global and project config.
const configFileName = "config.yaml"

// Validation errors.
var (
	ErrUnsupportedSchema = errors.New("unsupported config schema_version")
	ErrInvalidInterval   = errors.New("window.interval cannot be negative")
	ErrInvalidGap        = errors.New("window.item_gap cannot be negative")
	ErrInvalidLimit      = errors.New("data.limit cannot be negative")
	ErrInvalidGenerate   = errors.New("data.generate cannot be negative")
	ErrInvalidLogFormat  = errors.New("logging.format must be console or json")
)

// Config is the full application configuration.
type Config struct {
	SchemaVersion string        `yaml:"schema_version" env:"SCHEMA_VERSION"`
	Window        WindowConfig  `yaml:"window"         envPrefix:"WINDOW_"`
	Data          DataConfig    `yaml:"data"           envPrefix:"DATA_"`
	Logging       LoggingConfig `yaml:"logging"        envPrefix:"LOG_"`
}

// WindowConfig controls list virtualization.
type WindowConfig struct {
	// BufferBefore is the number of screens materialized above the viewport.
	BufferBefore int `yaml:"buffer_before" env:"BUFFER_BEFORE"`
	// BufferAfter is the number of screens materialized below the viewport.
	BufferAfter int `yaml:"buffer_after" env:"BUFFER_AFTER"`
	// Interval is the recompute quiescence window; 0 uses the default.
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
	// ItemGap is the number of blank rows between list items.
	ItemGap int `yaml:"item_gap" env:"ITEM_GAP"`
	// Disabled renders every item in full.
	Disabled bool `yaml:"disabled" env:"DISABLED"`
}

// DataConfig selects the record source.
type DataConfig struct {
	Paths    []string `yaml:"paths,omitempty" env:"PATHS" envSeparator:","`
	Limit    int      `yaml:"limit"           env:"LIMIT"`
	Generate int      `yaml:"generate"        env:"GENERATE"`
	Seed     uint64   `yaml:"seed"            env:"SEED"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"          env:"LEVEL"`
	Format string `yaml:"format"         env:"FORMAT"`
	File   string `yaml:"file,omitempty" env:"FILE"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		SchemaVersion: SchemaVersion,
		Window: WindowConfig{
			BufferBefore: window.DefaultBefore,
			BufferAfter:  window.DefaultAfter,
			Interval:     throttle.DefaultInterval,
			ItemGap:      1,
		},
		Data: DataConfig{
			Limit:    0,
			Generate: 2000,
			Seed:     1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Load builds the effective configuration: defaults, then the global config
// file at path (a missing file is fine unless required), then the project
// overlay in projectDir (if any), then VIRTUALLIST_* environment variables.
// The result is validated.
func Load(path string, required bool, projectDir string) (*Config, error) {
	cfg := New()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if !required && errors.Is(err, os.ErrNotExist) {
				err = nil
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if projectDir != "" {
		overlay := filepath.Join(projectDir, configFileName)
		if _, err := os.Stat(overlay); err == nil {
			if mergeErr := ShallowMergeYAML(cfg, overlay); mergeErr != nil {
				return nil, mergeErr
			}
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := validateSchema(c.SchemaVersion); err != nil {
		return err
	}
	if err := c.Buffer().Validate(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	if c.Window.Interval < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, c.Window.Interval)
	}
	if c.Window.ItemGap < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidGap, c.Window.ItemGap)
	}
	if c.Data.Limit < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, c.Data.Limit)
	}
	if c.Data.Generate < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidGenerate, c.Data.Generate)
	}
	switch c.Logging.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	return nil
}

// Buffer returns the window buffer configuration.
func (c *Config) Buffer() window.Buffer {
	return window.Buffer{Before: c.Window.BufferBefore, After: c.Window.BufferAfter}
}

// validateSchema accepts an empty version (treated as current) or any 1.x.
func validateSchema(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, version, err)
	}
	constraint, err := semver.NewConstraint(supportedSchema)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedSchema, v, supportedSchema)
	}
	return nil
}
