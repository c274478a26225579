package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelprops/dataopt/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10000, cfg.MaxDetailRows)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "gzip", cfg.Compression)
	assert.Equal(t, 500, cfg.TruncateLimits["property_description"])
	assert.Equal(t, 300, cfg.TruncateLimits["evidence"])
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().TableColumns, cfg.TableColumns)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "optimize.yaml")
	content := `max_detail_rows: 250
compression: zstd
table_columns:
  - prompt
  - model
truncate_limits:
  prompt: 100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.MaxDetailRows)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.Equal(t, []string{"prompt", "model"}, cfg.TableColumns)
	assert.Equal(t, 100, cfg.TruncateLimits["prompt"])

	// Untouched keys keep their defaults
	assert.Equal(t, Default().DetailColumns, cfg.DetailColumns)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OPTIMIZE_MAX_DETAIL_ROWS", "77")
	t.Setenv("OPTIMIZE_COMPRESSION", "lz4")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.MaxDetailRows)
	assert.Equal(t, "lz4", cfg.Compression)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty table columns", func(c *Config) { c.TableColumns = nil }},
		{"zero detail cap", func(c *Config) { c.MaxDetailRows = 0 }},
		{"negative truncate limit", func(c *Config) { c.TruncateLimits["evidence"] = -1 }},
		{"unknown compression", func(c *Config) { c.Compression = "brotli" }},
		{"unknown columnar format", func(c *Config) { c.ColumnarFormat = "orc" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}
