package config

// DefaultBaseURL is where a locally run server listens out of the box.
const DefaultBaseURL = "http://127.0.0.1:8787"

// Config holds runtime settings for the up-skills CLI.
//
// Fields:
//   - BaseURL: root of the backend HTTP API, without a trailing slash.
//   - Token: bearer token identifying the collection. Empty means the user
//     has not run `init` or `auth` yet; only those two commands work then.
type Config struct {
	BaseURL string
	Token   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = DefaultBaseURL
	c.Token = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the JSON config file, environment variables and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
