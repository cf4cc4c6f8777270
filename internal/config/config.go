// Package config loads the configuration of the ucum binaries.
//
// Values come from, in order of precedence, bound command line flags,
// UCUM_ prefixed environment variables, a ucum.yaml file and defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/govalues/ucum/internal/logging"
)

const (
	envPrefix = "UCUM"
	fileName  = "ucum"
)

// Config is the application configuration.
type Config struct {
	Logging  logging.Config `mapstructure:"logging"`
	Registry Registry       `mapstructure:"registry"`
	Server   Server         `mapstructure:"server"`
	Metrics  Metrics        `mapstructure:"metrics"`
}

// Registry selects the unit dataset.
type Registry struct {
	// Dataset is the path of a YAML dataset; empty means the embedded one.
	Dataset   string `mapstructure:"dataset"`
	CacheSize int    `mapstructure:"cacheSize"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// Metrics configures the prometheus collector.
type Metrics struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// SetDefaults registers the default of every key with v.
func SetDefaults(v *viper.Viper) {
	l := logging.DefaultConfig()
	v.SetDefault("logging.level", l.Level)
	v.SetDefault("logging.format", l.Format)
	v.SetDefault("logging.output", l.Output)
	v.SetDefault("logging.development", l.Development)
	v.SetDefault("registry.dataset", "")
	v.SetDefault("registry.cacheSize", 1024)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 15*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "ucum")
}

// Load reads the configuration into v and decodes it.
// If file is empty, ucum.yaml is looked up in the working directory and
// in $HOME/.config/ucum, and a missing file is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", fileName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "reading config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Registry.CacheSize < 0 {
		result = multierror.Append(result, errors.Errorf("registry.cacheSize must not be negative, got %v", c.Registry.CacheSize))
	}
	if c.Server.Addr == "" {
		result = multierror.Append(result, errors.New("server.addr must be set"))
	}
	for key, d := range map[string]time.Duration{
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
	} {
		if d <= 0 {
			result = multierror.Append(result, errors.Errorf("%v must be positive, got %v", key, d))
		}
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		result = multierror.Append(result, errors.New("metrics.namespace must be set when metrics are enabled"))
	}
	return errors.Wrap(result.ErrorOrNil(), "invalid config")
}
