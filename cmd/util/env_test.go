package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xingh/bsn-modulestore/internal/inventory"
)

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("TEST_STRING", "test-value")
	if got := GetEnvWithDefault("TEST_STRING", "default"); got != "test-value" {
		t.Errorf("Expected GetEnvWithDefault to return 'test-value', got '%s'", got)
	}

	if got := GetEnvWithDefault("MODULESTORE_MISSING_VAR", "default"); got != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default', got '%s'", got)
	}

	// Empty values fall back to the default
	t.Setenv("EMPTY_VAR", "")
	if got := GetEnvWithDefault("EMPTY_VAR", "default"); got != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default' for empty var, got '%s'", got)
	}
}

func TestGetEnvIntWithDefault(t *testing.T) {
	t.Setenv("TEST_INT", "12345")
	if got := GetEnvIntWithDefault("TEST_INT", 0); got != 12345 {
		t.Errorf("Expected GetEnvIntWithDefault to return 12345, got %d", got)
	}

	t.Setenv("TEST_INVALID_INT", "not-a-number")
	if got := GetEnvIntWithDefault("TEST_INVALID_INT", 999); got != 999 {
		t.Errorf("Expected GetEnvIntWithDefault to return default 999, got %d", got)
	}

	if got := GetEnvIntWithDefault("MODULESTORE_MISSING_INT_VAR", 777); got != 777 {
		t.Errorf("Expected GetEnvIntWithDefault to return default 777, got %d", got)
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("MODULESTORE_SCHEMA", "")
	t.Setenv("MODULESTORE_ENGINE_VERSION", "")
	if DefaultSchema() != inventory.DefaultSchema {
		t.Errorf("expected %s, got %s", inventory.DefaultSchema, DefaultSchema())
	}
	if DefaultEngineVersion() != inventory.DefaultEngineVersion {
		t.Errorf("expected %d, got %d", inventory.DefaultEngineVersion, DefaultEngineVersion())
	}

	t.Setenv("MODULESTORE_SCHEMA", "app")
	t.Setenv("MODULESTORE_ENGINE_VERSION", "13")
	if DefaultSchema() != "app" || DefaultEngineVersion() != 13 {
		t.Errorf("expected app/13, got %s/%d", DefaultSchema(), DefaultEngineVersion())
	}
}

func TestLoadDotenv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MODULESTORE_ENV_FILE", "")

	if err := LoadDotenv(); err != nil {
		t.Fatalf("a missing .env should be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "staging.env")
	if err := os.WriteFile(path, []byte("MODULESTORE_SCHEMA=staging\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MODULESTORE_ENV_FILE", path)
	t.Setenv("MODULESTORE_SCHEMA", "")
	os.Unsetenv("MODULESTORE_SCHEMA")
	if err := LoadDotenv(); err != nil {
		t.Fatalf("failed to load %s: %v", path, err)
	}
	if got := DefaultSchema(); got != "staging" {
		t.Errorf("Expected MODULESTORE_SCHEMA='staging', got '%s'", got)
	}

	t.Setenv("MODULESTORE_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	if err := LoadDotenv(); err == nil {
		t.Error("Expected an error for a missing env file named explicitly")
	}
}
