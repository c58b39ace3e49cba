package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "surface13", cfg.DefaultCode)
	assert.Equal(t, 0, cfg.DefaultInitial)
	assert.Equal(t, "raw", cfg.DecodeMode)
	assert.Equal(t, 4, cfg.SuiteWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "qswitch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("default_code: surface17\nsuite_workers: 2\n"), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "surface17", cfg.DefaultCode)
		assert.Equal(t, 2, cfg.SuiteWorkers)
		// Untouched keys keep their defaults.
		assert.Equal(t, "raw", cfg.DecodeMode)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "qswitch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("default_code: [unclosed"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qswitch.yaml")
	in := &Config{
		DefaultCode:    "surface17",
		DefaultInitial: 1,
		DecodeMode:     "syndrome",
		SuiteWorkers:   8,
		LogLevel:       "debug",
	}
	require.NoError(t, in.Save(path))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QSWITCH_CODE", "surface17")
	t.Setenv("QSWITCH_INITIAL", "1")
	t.Setenv("QSWITCH_DECODE_MODE", "syndrome")
	t.Setenv("QSWITCH_SUITE_WORKERS", "7")
	t.Setenv("QSWITCH_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "surface17", cfg.DefaultCode)
	assert.Equal(t, 1, cfg.DefaultInitial)
	assert.Equal(t, "syndrome", cfg.DecodeMode)
	assert.Equal(t, 7, cfg.SuiteWorkers)
	assert.Equal(t, "warn", cfg.LogLevel)

	t.Run("overrides beat file values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "qswitch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("default_code: surface13\n"), 0644))
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "surface17", cfg.DefaultCode)
	})

	t.Run("non-numeric worker count is ignored", func(t *testing.T) {
		t.Setenv("QSWITCH_SUITE_WORKERS", "many")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.SuiteWorkers)
	})
}

func TestValidate(t *testing.T) {
	mutate := func(fn func(*Config)) *Config {
		cfg := DefaultConfig()
		fn(cfg)
		return cfg
	}

	for name, cfg := range map[string]*Config{
		"unknown code":    mutate(func(c *Config) { c.DefaultCode = "surface25" }),
		"bad initial":     mutate(func(c *Config) { c.DefaultInitial = 2 }),
		"bad decode mode": mutate(func(c *Config) { c.DecodeMode = "ml" }),
		"zero workers":    mutate(func(c *Config) { c.SuiteWorkers = 0 }),
		"bad log level":   mutate(func(c *Config) { c.LogLevel = "trace" }),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("surface17 with syndrome decode", func(t *testing.T) {
		cfg := mutate(func(c *Config) {
			c.DefaultCode = "surface17"
			c.DecodeMode = "syndrome"
		})
		assert.NoError(t, cfg.Validate())
	})
}
