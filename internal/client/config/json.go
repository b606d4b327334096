package config

import (
	"encoding/json"
	"os"

	"github.com/CHJCOCO/ryuin/internal/flagx"
)

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags via
// flagx.JsonConfigFlags(); when absent nothing is loaded. Only keys present
// in the file override the running config. Read or unmarshal errors panic;
// a config file that exists but cannot be used is a deployment mistake.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jsonConfig{cfg}); err != nil {
		panic(err)
	}
}

// jsonConfig maps the file's keys onto the live Config so absent keys keep
// their current values.
type jsonConfig struct {
	cfg *Config
}

func (j jsonConfig) UnmarshalJSON(data []byte) error {
	aux := struct {
		ServerBaseURL *string `json:"server_base_url"`
		Transport     *string `json:"transport"`
		Origin        *string `json:"origin"`
		Concurrency   *int    `json:"concurrency"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ServerBaseURL != nil {
		j.cfg.ServerBaseURL = *aux.ServerBaseURL
	}
	if aux.Transport != nil {
		j.cfg.Transport = *aux.Transport
	}
	if aux.Origin != nil {
		j.cfg.Origin = *aux.Origin
	}
	if aux.Concurrency != nil {
		j.cfg.Concurrency = *aux.Concurrency
	}
	return nil
}
