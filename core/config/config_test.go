package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "warehouse-sync", cfg.Storage.Bucket)
	assert.Equal(t, 20, cfg.Storage.Retention)
	assert.Equal(t, 3*time.Second, cfg.Sync.PropagationTimeout())
	assert.Equal(t, 8, cfg.Sync.MaxParallel)
	assert.Equal(t, 5.0, cfg.Sync.HealthyLagThreshold)
	assert.Equal(t, "localhost:6379", cfg.Relay.Address)
	assert.Equal(t, 256, cfg.Relay.BufferSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("SYNC_PROPAGATION_TIMEOUT_MS", "250")
	t.Setenv("SYNC_HEALTHY_LAG_THRESHOLD", "2.5")
	t.Setenv("RELAY_ENABLED", "true")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.PropagationTimeout())
	assert.Equal(t, 2.5, cfg.Sync.HealthyLagThreshold)
	assert.True(t, cfg.Relay.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_API_KEY=from-file\nSYNC_MAX_PARALLEL=2\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SERVER_API_KEY")
		os.Unsetenv("SYNC_MAX_PARALLEL")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Server.ApiKey)
	assert.Equal(t, 2, cfg.Sync.MaxParallel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")
	t.Setenv("SYNC_MAX_PARALLEL", "-1")

	cfg, err := LoadConfig(t.TempDir())
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "unsupported driver \"oracle\"")
	assert.ErrorContains(t, err, "sync.max_parallel")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Database.Driver = "sqlite"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "zero values fall back to defaults", mutate: func(*Config) {}},
		{name: "negative timeout", mutate: func(c *Config) { c.Sync.PropagationTimeoutMs = -5 }, wantErr: "propagation_timeout_ms"},
		{name: "negative retention", mutate: func(c *Config) { c.Storage.Retention = -1 }, wantErr: "storage.retention"},
		{name: "relay without buffer", mutate: func(c *Config) {
			c.Relay.Enabled = true
			c.Relay.Address = "localhost:6379"
		}, wantErr: "relay.buffer_size"},
		{name: "disabled relay is not checked", mutate: func(c *Config) { c.Relay.BufferSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
