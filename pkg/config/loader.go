package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings.
//
// Example:
//
//	type Config struct {
//	    Port     int    `env:"STOREFRONT_HTTP_PORT" envDefault:"3000"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// LoadDotenv reads KEY=VALUE pairs from the given files (".env" when none are
// given) into the process environment. Variables that are already set win over
// file values. Missing files are skipped; malformed files are an error.
func LoadDotenv(paths ...string) (loaded []string, err error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("load dotenv %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}
