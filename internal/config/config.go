package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	ListenAddr     string `koanf:"listen_addr"`
	DBPath         string `koanf:"db_path"`
	APIKey         string `koanf:"api_key"`
	CurrencySymbol string `koanf:"currency_symbol"`
	LogLevel       string `koanf:"log_level"`
	LogFormat      string `koanf:"log_format"`
	LogFile        string `koanf:"log_file"`
}

// ConfigPathEnvVar overrides the config file search below.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried in order when CONFIG_PATH is unset. The API
// key is normally kept in secrets.yaml, outside version control.
var DefaultConfigPaths = []string{
	"config.yaml",
	"secrets.yaml",
}

var envKeys = map[string]string{
	"listen_addr":     "listen_addr",
	"db_path":         "db_path",
	"api_key":         "api_key",
	"currency_symbol": "currency_symbol",
	"log_level":       "log_level",
	"log_format":      "log_format",
	"log_file":        "log_file",
}

func defaults() Config {
	return Config{
		ListenAddr:     ":8080",
		DBPath:         "cafes.db",
		CurrencySymbol: "£",
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load layers defaults, an optional YAML file and environment variables, in
// that order of precedence, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, errors.New("api_key is required (set API_KEY or api_key in secrets.yaml)"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr must not be empty"))
	}
	return errors.Join(errs...)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKey maps LISTEN_ADDR style variables onto config keys; anything else
// is ignored.
func envKey(s string) string {
	return envKeys[strings.ToLower(s)]
}
