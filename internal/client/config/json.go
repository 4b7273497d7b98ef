package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/upskills/internal/filex"
	"github.com/dmitrijs2005/upskills/internal/flagx"
)

// EnvConfigFile names the environment variable that relocates the config
// file, mostly useful in tests and containers.
const EnvConfigFile = "UPSKILLS_CONFIG"

// JsonConfig is a DTO used exclusively for JSON marshalling of the config
// file. Values are copied into the runtime Config after parsing.
type JsonConfig struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`
}

// DefaultConfigFile returns the per-user config file location,
// ~/.config/up-skills/config.json.
func DefaultConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "up-skills", "config.json"), nil
}

// ConfigFile resolves which config file the CLI reads and writes:
// -c/-config flags first, then UPSKILLS_CONFIG, then the default location.
func ConfigFile() (string, error) {
	if path := flagx.JsonConfigFlags(); path != "" {
		return path, nil
	}
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path, nil
	}
	return DefaultConfigFile()
}

// parseJson overlays Config with values loaded from the JSON config file.
//
// A missing file is not an error: the default path does not exist until the
// user runs `init` or `auth`. Read or unmarshal errors on a file that does
// exist panic, matching the server-side loader.
//
// Empty fields in the file leave the corresponding Config value untouched,
// so a file holding only a token does not wipe the base URL default.
func parseJson(cfg *Config) {
	path, err := ConfigFile()
	if err != nil {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.Token != "" {
		cfg.Token = jc.Token
	}
}

// Save persists the base URL and token to path, creating parent directories
// as needed. The file is written with 0600 since it holds the raw token.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(&JsonConfig{BaseURL: cfg.BaseURL, Token: cfg.Token}, "", "  ")
	if err != nil {
		return err
	}

	return filex.WriteFileInDir(path, append(data, '\n'), 0o600)
}
