// Package config loads the client configuration from ~/.intranet/config.yaml
// with INTRANET_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INTRANET"

// Store backends
const (
	BackendSystem = "system"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Config holds the client configuration
type Config struct {
	Server struct {
		URL     string        `yaml:"url" validate:"required"`
		Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	} `yaml:"server"`
	Auth struct {
		Mode string `yaml:"mode" validate:"omitempty,oneof=cookie body"`
	} `yaml:"auth"`
	Store struct {
		Backend   string `yaml:"backend" validate:"omitempty,oneof=system redis memory none"`
		RedisAddr string `yaml:"redis_addr,omitempty" validate:"required_if=Backend redis"`
	} `yaml:"store"`
	Logging struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	} `yaml:"logging"`
	Lists struct {
		DropStaleResults bool `yaml:"drop_stale_results"`
	} `yaml:"lists"`
	Locale string `yaml:"locale" validate:"omitempty,oneof=ru en"`
}

// env is the INTRANET_* overlay. Unset variables, and empty string values,
// leave the file setting alone.
type env struct {
	ServerURL        string         `envconfig:"SERVER_URL"`
	HTTPTimeout      *time.Duration `envconfig:"HTTP_TIMEOUT"`
	AuthMode         string         `envconfig:"AUTH_MODE"`
	StoreBackend     string         `envconfig:"STORE_BACKEND"`
	RedisAddr        string         `envconfig:"REDIS_ADDR"`
	LogLevel         string         `envconfig:"LOG_LEVEL"`
	LogFormat        string         `envconfig:"LOG_FORMAT"`
	Locale           string         `envconfig:"LOCALE"`
	DropStaleResults *bool          `envconfig:"DROP_STALE_RESULTS"`
}

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.URL = "http://localhost:8000"
	cfg.Server.Timeout = 10 * time.Second
	cfg.Auth.Mode = "cookie"
	cfg.Store.Backend = BackendSystem
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Locale = "ru"
	return cfg
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".intranet")
}

// GetConfigPath returns the configuration file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load reads the config file if present, applies environment overrides and
// validates the result.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(GetConfigPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", GetConfigPath(), err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Server.URL, e.ServerURL)
	set(&c.Auth.Mode, e.AuthMode)
	set(&c.Store.Backend, e.StoreBackend)
	set(&c.Store.RedisAddr, e.RedisAddr)
	set(&c.Logging.Level, e.LogLevel)
	set(&c.Logging.Format, e.LogFormat)
	set(&c.Locale, e.Locale)

	if e.HTTPTimeout != nil {
		c.Server.Timeout = *e.HTTPTimeout
	}
	if e.DropStaleResults != nil {
		c.Lists.DropStaleResults = *e.DropStaleResults
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("server URL must include a host")
	}
	return nil
}

// IsInsecure reports whether the server is reached over plain http on a
// non-loopback host.
func (c *Config) IsInsecure() bool {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme != "http" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return false
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return false
	}
	return true
}

// Save writes the configuration file, creating its directory.
func (c *Config) Save() error {
	if err := os.MkdirAll(GetConfigDir(), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(GetConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Set updates one setting addressed as section.field (or "locale").
func (c *Config) Set(key, value string) error {
	switch key {
	case "server.url":
		c.Server.URL = value
	case "server.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		c.Server.Timeout = d
	case "auth.mode":
		c.Auth.Mode = value
	case "store.backend":
		c.Store.Backend = value
	case "store.redis_addr":
		c.Store.RedisAddr = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "lists.drop_stale_results":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q: %w", value, err)
		}
		c.Lists.DropStaleResults = b
	case "locale":
		c.Locale = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Keys lists the settable keys with a short description, for completion.
func Keys() []string {
	return []string{
		"server.url\tAPI origin",
		"server.timeout\tHTTP timeout (e.g. 10s)",
		"auth.mode\tRefresh token transport (cookie or body)",
		"store.backend\tSession store (system, redis, memory, none)",
		"store.redis_addr\tRedis address for the redis store",
		"logging.level\tLogging level (debug, info, warn, error)",
		"logging.format\tLog format (text or json)",
		"lists.drop_stale_results\tIgnore list results superseded by a newer fetch",
		"locale\tMessage language (ru or en)",
	}
}
