// Package config loads catalogd configuration with viper: built-in defaults,
// an optional YAML file, and CATALOG_* environment overrides, in ascending
// precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// RemoteBaseURL is the catalog service this instance syncs against.
	RemoteBaseURL string `mapstructure:"remote_base_url"`

	// DatabaseDSN selects the durable cache. Empty means in-memory only:
	// the cache then lives exactly as long as the process.
	DatabaseDSN string `mapstructure:"database_dsn"`

	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsToken   string `mapstructure:"metrics_token"`

	SubmitRateLimit  int `mapstructure:"submit_rate_limit"`
	SubmitRateWindow int `mapstructure:"submit_rate_window_seconds"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8084")
	v.SetDefault("log_level", "info")
	v.SetDefault("remote_base_url", "https://app.getswipe.in/api/public")
	v.SetDefault("database_dsn", "")
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("metrics_token", "")
	v.SetDefault("submit_rate_limit", 10)
	v.SetDefault("submit_rate_window_seconds", 60)
}

// Load reads configuration. configFile may be empty; when set, the file must
// exist and parse.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("catalog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Watch re-reads the config file on change and hands the result to onChange.
// Invalid updates are dropped; the previous configuration stays in effect.
// Only usable when Load was given a config file.
func Watch(configFile string, onChange func(Config, error)) error {
	if configFile == "" {
		return errors.New("config watch requires a config file")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			onChange(Config{}, err)
			return
		}
		if err := cfg.Validate(); err != nil {
			onChange(Config{}, err)
			return
		}
		onChange(cfg, nil)
	})
	v.WatchConfig()
	return nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	u, err := url.Parse(c.RemoteBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("remote_base_url %q is not an absolute URL", c.RemoteBaseURL)
	}

	if c.SubmitRateLimit <= 0 || c.SubmitRateWindow <= 0 {
		return errors.New("submit rate limit and window must be positive")
	}
	return nil
}
