package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(os.Stderr)
	os.Args = os.Args[:1]
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATABASE_URI", "DATA_DIR", "CATALOG_URL", "IMAGES_REF_URL",
		"BASE_URL", "ASSET_CACHE_DIR", "IMAGE_MAX_MB", "AUTOFILL", "DEBUG"} {
		// t.Setenv запоминает исходное значение, затем удаляем переменную целиком
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)

	resetFlagSet(t)
	cfg := NewConfig()

	assert.Equal(t, "localhost:8081", cfg.BaseURL)
	assert.Equal(t, 10, cfg.ImageMaxMB)
	assert.Equal(t, int64(10*1024*1024), cfg.ImageMaxBytes())
	assert.Equal(t, filepath.Join(dir, "vault.sqlite"), cfg.DatabaseDSN)
	assert.Equal(t, filepath.Join(dir, "cache"), cfg.AssetCacheDir)
	assert.True(t, cfg.Autofill)
	assert.False(t, cfg.Debug)
}

func TestNewConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASE_URL", "example.com:9000")
	t.Setenv("DATABASE_URI", "postgres://u:p@localhost:5432/vault")
	t.Setenv("IMAGE_MAX_MB", "3")
	t.Setenv("AUTOFILL", "false")
	t.Setenv("DATA_DIR", t.TempDir())

	resetFlagSet(t)
	cfg := NewConfig()

	assert.Equal(t, "example.com:9000", cfg.BaseURL)
	assert.Equal(t, "postgres://u:p@localhost:5432/vault", cfg.DatabaseDSN)
	assert.Equal(t, 3, cfg.ImageMaxMB)
	assert.False(t, cfg.Autofill)
}

func TestNewConfig_InvalidBaseURLFallback(t *testing.T) {
	// BASE_URL со схемой должен откатиться на localhost:8081
	clearEnv(t)
	t.Setenv("BASE_URL", "http://bad:8080")
	t.Setenv("DATA_DIR", t.TempDir())

	resetFlagSet(t)
	cfg := NewConfig()

	assert.Equal(t, "localhost:8081", cfg.BaseURL)
}
