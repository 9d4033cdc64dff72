package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/statement-analyzer/internal/logging"

	"github.com/joho/godotenv"
)

var (
	envOnce   sync.Once
	envLoaded string
	envErr    error
)

// LoadEnv loads a .env file from the working directory or its parent, once
// per process. It returns the file that was loaded, or "" when none exists.
// Variables already present in the environment are never overwritten.
func LoadEnv() (string, error) {
	envOnce.Do(func() {
		for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if err := godotenv.Load(candidate); err != nil {
				envErr = err
				return
			}
			envLoaded = candidate
			return
		}
	})
	return envLoaded, envErr
}

// ConfigureLoggingFromConfig builds the application logger from the log
// section.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	if config == nil {
		return logging.NewLogrusAdapter("info", "text")
	}
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
