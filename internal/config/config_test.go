package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "", cfg.Registry.Dataset)
	assert.Equal(t, 1024, cfg.Registry.CacheSize)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "ucum", cfg.Metrics.Namespace)
}

func TestLoad_file(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ucum.yaml")
	const data = `
logging:
  level: debug
  format: json
registry:
  dataset: /etc/ucum/essence.yaml
  cacheSize: 16
server:
  addr: 127.0.0.1:9090
  readTimeout: 2s
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "/etc/ucum/essence.yaml", cfg.Registry.Dataset)
	assert.Equal(t, 16, cfg.Registry.CacheSize)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_env(t *testing.T) {
	t.Setenv("UCUM_REGISTRY_CACHESIZE", "7")
	t.Setenv("UCUM_LOGGING_LEVEL", "warn")
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Registry.CacheSize)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_flags(t *testing.T) {
	t.Parallel()
	fs := pflag.NewFlagSet("ucum", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.Int("cache", 1024, "")
	require.NoError(t, fs.Parse([]string{"--log-level=error", "--cache=3"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("logging.level", fs.Lookup("log-level")))
	require.NoError(t, v.BindPFlag("registry.cacheSize", fs.Lookup("cache")))
	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Registry.CacheSize)
}

func TestLoad_errors(t *testing.T) {
	t.Parallel()
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")

	path := filepath.Join(t.TempDir(), "ucum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registry:\n  cacheSize: -1\n"), 0o600))
	_, err = Load(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry.cacheSize must not be negative")
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	cfg := Config{
		Registry: Registry{CacheSize: -1},
		Server:   Server{ReadTimeout: time.Second, WriteTimeout: time.Second},
		Metrics:  Metrics{Enabled: true},
	}
	err := cfg.Validate()
	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 4)
	assert.Contains(t, err.Error(), "server.shutdownTimeout must be positive")
	assert.Contains(t, err.Error(), "server.addr must be set")
	assert.Contains(t, err.Error(), "metrics.namespace must be set")
}
