// Package config reads the optional archiscript.yaml file of the CLI.
// Command line flags override every value read here.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "archiscript.yaml"

// Config is the shape of archiscript.yaml.
type Config struct {
	Model    string      `yaml:"model" json:"model"`
	ReadOnly bool        `yaml:"read_only" json:"read_only"`
	LogLevel string      `yaml:"log_level" json:"log_level"`
	Redis    RedisConfig `yaml:"redis" json:"redis"`
	HTTP     HTTPConfig  `yaml:"http" json:"http"`
}

// RedisConfig configures the cross-process model lock.
type RedisConfig struct {
	Addr    string        `yaml:"addr" json:"addr"`
	Prefix  string        `yaml:"prefix" json:"prefix"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	Metrics bool   `yaml:"metrics" json:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Redis:    RedisConfig{Prefix: "archiscript:"},
		HTTP:     HTTPConfig{Addr: ":8080", Metrics: true},
	}
}

// Load reads a configuration file (YAML or JSON) over the defaults.
// A missing file is not an error unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
