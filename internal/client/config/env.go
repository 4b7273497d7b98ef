package config

import "os"

// Environment variables recognized by the CLI. They sit between the config
// file and command-line flags in precedence.
const (
	EnvBaseURL = "UPSKILLS_BASE_URL"
	EnvToken   = "UPSKILLS_TOKEN"
)

// parseEnv overlays Config with values from the environment. Unset or empty
// variables leave the current value untouched.
func parseEnv(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
}
