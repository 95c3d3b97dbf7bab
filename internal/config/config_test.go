package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "book", cfg.OutputDir)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, 1500, cfg.ChunkSize)
	assert.Equal(t, 10*time.Second, cfg.LinkTimeout)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: site\nlink_workers: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.OutputDir)
	assert.Equal(t, 3, cfg.LinkWorkers)
	assert.Equal(t, "8090", cfg.Port) // untouched default
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: site\n"), 0o600))
	t.Setenv("OUTBOOK_OUTPUT_DIR", "envdir")
	t.Setenv("OUTBOOK_CHUNK_SIZE", "900")
	t.Setenv("OUTBOOK_LINK_TIMEOUT", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "envdir", cfg.OutputDir)
	assert.Equal(t, 900, cfg.ChunkSize)
	assert.Equal(t, 3*time.Second, cfg.LinkTimeout)
}

func TestLoad_InvalidYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n bad"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"overlap exceeds chunk size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, true},
		{"zero workers", func(c *Config) { c.LinkWorkers = 0 }, true},
		{"negative upload limit", func(c *Config) { c.MaxUploadBytes = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.OutputDir = "manuscript"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "manuscript", loaded.OutputDir)
}
