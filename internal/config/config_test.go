package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	validConfig := func() Config {
		return Config{
			Stats:  StatsConfig{Path: "stats.json"},
			Cache:  CacheConfig{Enabled: true, MaxEntries: 32},
			Output: OutputConfig{Format: "table"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty stats path",
			mutate:  func(c *Config) { c.Stats.Path = "" },
			wantErr: true,
			errMsg:  "stats.path cannot be empty",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: true,
			errMsg:  "output format must be",
		},
		{
			name:    "zero cache entries",
			mutate:  func(c *Config) { c.Cache.MaxEntries = 0 },
			wantErr: true,
			errMsg:  "cache.max_entries must be positive",
		},
		{
			name:    "negative cache entries",
			mutate:  func(c *Config) { c.Cache.MaxEntries = -1 },
			wantErr: true,
			errMsg:  "cache.max_entries must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "stats.json", cfg.Stats.Path)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "", cfg.Cache.Dir)
	assert.Equal(t, 32, cfg.Cache.MaxEntries)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("STATLENS_STATS_PATH", "dist/stats.json")
	t.Setenv("STATLENS_OUTPUT_FORMAT", "json")
	t.Setenv("STATLENS_CACHE_ENABLED", "false")
	t.Setenv("STATLENS_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dist/stats.json", cfg.Stats.Path)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Debug)
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "statlens.yaml")
	content := []byte("stats:\n  path: build/stats.json\noutput:\n  format: yaml\ncache:\n  max_entries: 5\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "build/stats.json", cfg.Stats.Path)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 5, cfg.Cache.MaxEntries)
	// Untouched keys keep their defaults.
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("STATLENS_OUTPUT_FORMAT", "csv")

	cfg, err := Load("")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}
