// Package config loads the supervisor configuration from a YAML file
// overlaid with environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the supervisor process configuration.
type Config struct {
	Web     WebConfig     `yaml:"web" envconfig:"WEB"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// WebConfig configures the embedded web console. App and handler
// factories are code values registered programmatically; only the
// addressable settings live here.
type WebConfig struct {
	Host string `yaml:"host" envconfig:"HOST"`
	// Port zero means auto-assign with bind retries.
	Port      int    `yaml:"port" envconfig:"PORT"`
	StaticDir string `yaml:"static_dir" envconfig:"STATIC_DIR"`
	// PluginModules lists console plugin modules merged at construction
	// time, in order. Unresolvable names are skipped.
	PluginModules []string `yaml:"plugin_modules" envconfig:"PLUGIN_MODULES"`
	// SupervisorAddr is the actor pool address advertised to handlers.
	SupervisorAddr string `yaml:"supervisor_addr" envconfig:"SUPERVISOR_ADDR"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" envconfig:"FORMAT"` // json, text
}

// Load loads configuration from file and environment variables. A
// missing file is not an error; defaults plus environment apply.
func Load(configFile string) (*Config, error) {
	cfg := defaultConfig()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("QUASAR", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Web: WebConfig{
			Host:           "0.0.0.0",
			StaticDir:      "static",
			SupervisorAddr: "127.0.0.1:7077",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port: %d", c.Web.Port)
	}
	if c.Web.SupervisorAddr == "" {
		return fmt.Errorf("supervisor_addr is required")
	}
	return nil
}
