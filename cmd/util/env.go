package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/xingh/bsn-modulestore/internal/inventory"
)

// LoadDotenv loads the file named by MODULESTORE_ENV_FILE, or .env in the
// working directory. A missing .env is ignored; a missing file named
// explicitly is an error. Variables already set are never overridden.
func LoadDotenv() error {
	path := os.Getenv("MODULESTORE_ENV_FILE")
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntWithDefault returns the value of an environment variable as int or a default value if not set
func GetEnvIntWithDefault(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// DefaultSchema is the schema used when --schema is not given
func DefaultSchema() string {
	return GetEnvWithDefault("MODULESTORE_SCHEMA", inventory.DefaultSchema)
}

// DefaultEngineVersion is the engine version used when --engine-version is not given
func DefaultEngineVersion() int {
	return GetEnvIntWithDefault("MODULESTORE_ENGINE_VERSION", inventory.DefaultEngineVersion)
}
