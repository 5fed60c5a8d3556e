package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays variables that are set; unset ones leave the field as is.
func parseEnv(config *Config) error {
	return env.Parse(config)
}
