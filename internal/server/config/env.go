package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays configuration values from SHOPGRAPH_* environment
// variables. Unset variables leave the current values untouched, so the
// overlay composes with defaults, JSON, and flags.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
