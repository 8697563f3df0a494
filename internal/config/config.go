// Package config provides functionality for loading and accessing environment variables.
package config

import (
	"os"
	"path/filepath"

	// Embedded zone database so parser.timezone resolves on minimal images.
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the current or
// parent directory. It returns the file it loaded, or "" when none exists.
// Variables already set in the environment are not overridden.
func LoadEnv() (string, error) {
	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return envFile, err
		}
		return envFile, nil
	}
	return "", nil
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
