package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// parseEnv overlays environment variables onto config. A .env file in the
// working directory is loaded first if present; a missing file is not an
// error. envconfig only touches fields whose variable is actually set, so
// defaults survive a sparse environment.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if err := envconfig.Process("", config); err != nil {
		panic(err)
	}
}
