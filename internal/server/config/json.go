package config

import (
	"encoding/json"
	"os"

	"github.com/CHJCOCO/ryuin/internal/flagx"
)

// parseJson loads configuration values from an optional JSON file into the
// provided Config. The file path comes from the -c or -config command-line
// flags; when neither is set, nothing is loaded.
//
// The file may be sparse: only the keys present in it override the values
// already in config. An unreadable or invalid file panics, because
// starting with a half-applied config file would be worse than not
// starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	// Unmarshalling into the live struct means absent keys keep their
	// current (default/env) values.
	if err := json.Unmarshal(file, config); err != nil {
		panic(err)
	}
}
