// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all runtime settings. Every field has a working default so
// the binary runs with an empty environment.
type Config struct {
	// BaseURL is the wiki root; page titles are appended to it.
	BaseURL string `env:"POKEPEDIA_BASE_URL" envDefault:"https://www.pokepedia.fr/"`

	// OutputDir receives the generated per-generation CSV files.
	OutputDir string `env:"OUTPUT_DIR" envDefault:"output"`

	// FetchTimeout bounds a single page fetch.
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"300s"`

	// FetchMode selects the page fetcher: "http" or "browser".
	FetchMode string `env:"FETCH_MODE" envDefault:"http"`

	RESTPort  string `env:"REST_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"true"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}
	return cfg, nil
}
