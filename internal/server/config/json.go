package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/upskills/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as integer seconds; absent fields keep their current values.
type JsonConfig struct {
	EndpointAddr         string   `json:"endpoint_addr"`
	DatabaseDSN          string   `json:"database_dsn"`
	TokenSalt            string   `json:"token_salt"`
	FetchTimeoutSeconds  int      `json:"fetch_timeout_seconds"`
	MaxSkillBytes        int64    `json:"max_skill_bytes"`
	MaxURLLength         int      `json:"max_url_length"`
	AllowedHosts         []string `json:"allowed_hosts"`
	MaxNameLength        int      `json:"max_name_length"`
	MaxDescriptionLength int      `json:"max_description_length"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies fields present in the file into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.TokenSalt != "" {
		cfg.TokenSalt = jc.TokenSalt
	}
	if jc.FetchTimeoutSeconds > 0 {
		cfg.FetchTimeout = time.Duration(jc.FetchTimeoutSeconds) * time.Second
	}
	if jc.MaxSkillBytes > 0 {
		cfg.MaxSkillBytes = jc.MaxSkillBytes
	}
	if jc.MaxURLLength > 0 {
		cfg.MaxURLLength = jc.MaxURLLength
	}
	if len(jc.AllowedHosts) > 0 {
		cfg.AllowedHosts = jc.AllowedHosts
	}
	if jc.MaxNameLength > 0 {
		cfg.MaxNameLength = jc.MaxNameLength
	}
	if jc.MaxDescriptionLength > 0 {
		cfg.MaxDescriptionLength = jc.MaxDescriptionLength
	}
}
