package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g. VIRTUALLIST_WINDOW_INTERVAL.
const EnvPrefix = "VIRTUALLIST_"

// ApplyEnv overlays VIRTUALLIST_* environment variables onto cfg. Fields
// without a matching variable keep their current value.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
