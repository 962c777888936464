// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config aggregates the runtime settings the binary needs.
type Config struct {
	DBPath string
	Logger LoggerConfig
}

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads an optional .env file and then the environment. Every
// setting has a default; a fresh machine needs no configuration.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	dbPath := os.Getenv("CAFELEDGER_DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, ".cafeledger", "cafeledger.db")
	}

	return &Config{
		DBPath: dbPath,
		Logger: LoggerConfig{
			Level:    getEnv("CAFELEDGER_LOG_LEVEL", "info"),
			Encoding: getEnv("CAFELEDGER_LOG_ENCODING", "console"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
