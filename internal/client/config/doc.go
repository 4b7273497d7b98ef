// Package config loads runtime configuration for the up-skills CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON config file (see parseJson). The path comes from the
//     -c/-config flags, then the UPSKILLS_CONFIG environment variable, then
//     the default location ~/.config/up-skills/config.json.
//  3. Environment variables UPSKILLS_BASE_URL and UPSKILLS_TOKEN.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "base_url": "http://127.0.0.1:8787",
//	  "token": "ups_..."
//	}
//
// The same file is what `up-skills init` and `up-skills auth` write, so a
// fresh shell picks the token up without any flags.
//
// Primary API
//
//   - type Config                     — holds BaseURL and Token
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, env, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//   - func DefaultConfigFile()        — resolved per-user config path
//   - func Save(path, cfg)            — persists base URL and token (0600)
package config
