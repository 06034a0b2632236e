package config

import (
	"os"
	"path/filepath"
	"testing"

	"cholwatch/internal"
	"cholwatch/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "GIN_MODE", "MAX_UPLOAD_MB", "CHOL_COLUMN", "PREVIEW_ROWS",
	"HISTOGRAM_BINS", "OPS_ENABLED", "OPS_PORT", "LOG_LEVEL",
}

// clearEnv blanks every key Load reads; blank values fall back to defaults
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, int64(10*1024*1024), cfg.Server.MaxUploadBytes())
	assert.Equal(t, internal.LogLevelInfo, cfg.Level())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("CHOL_COLUMN", "total_cholesterol")
	t.Setenv("PREVIEW_ROWS", "10")
	t.Setenv("HISTOGRAM_BINS", "30")
	t.Setenv("OPS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, 25, cfg.Server.MaxUploadMB)
	assert.Equal(t, "total_cholesterol", cfg.Analysis.Column)
	assert.Equal(t, 10, cfg.Analysis.PreviewRows)
	assert.Equal(t, 30, cfg.Analysis.HistogramBins)
	assert.False(t, cfg.Ops.Enabled)
	assert.Equal(t, internal.LogLevelDebug, cfg.Level())
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("PREVIEW_ROWS", "lots")
	t.Setenv("OPS_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Analysis.PreviewRows)
	assert.True(t, cfg.Ops.Enabled)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := map[string]map[string]string{
		"non-numeric port": {"PORT": "http"},
		"bad gin mode":     {"GIN_MODE": "verbose"},
		"zero upload":      {"MAX_UPLOAD_MB": "0"},
		"too many bins":    {"HISTOGRAM_BINS": "1000"},
		"bad log level":    {"LOG_LEVEL": "LOUD"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHOL_COLUMN=ldl\n"), 0o600))
	t.Setenv("CHOL_COLUMN", "")
	os.Unsetenv("CHOL_COLUMN")

	assert.True(t, LoadDotEnv(path))
	assert.Equal(t, "ldl", os.Getenv("CHOL_COLUMN"))
	assert.False(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
