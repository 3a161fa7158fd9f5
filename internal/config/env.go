package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env holds settings read from the process environment, optionally seeded
// from a .env file in the working directory.
type Env struct {
	ConfigPath string
	LogLevel   string
	Seed       int64
	HasSeed    bool
}

// LoadEnv reads DOUBLES_CONFIG, DOUBLES_LOG_LEVEL and DOUBLES_SEED. A missing
// .env file is not an error; an unreadable or malformed one is.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Env{}, fmt.Errorf("loading .env: %w", err)
	}

	env := Env{
		ConfigPath: getEnv("DOUBLES_CONFIG", ""),
		LogLevel:   getEnv("DOUBLES_LOG_LEVEL", "info"),
	}
	if s := getEnv("DOUBLES_SEED", ""); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return env, fmt.Errorf("parsing DOUBLES_SEED: %w", err)
		}
		env.Seed, env.HasSeed = seed, true
	}
	return env, nil
}

// Apply overrides config values that were set in the environment.
func (e Env) Apply(cfg *Config) {
	if e.HasSeed {
		cfg.Seed = e.Seed
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
