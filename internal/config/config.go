// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Generator backends.
const (
	GeneratorStub = "stub"
	GeneratorHTTP = "http"
)

// Config holds all configuration values for stylewiz.
type Config struct {
	Model            string        `mapstructure:"model" yaml:"model"`
	Generator        string        `mapstructure:"generator" yaml:"generator"`
	Endpoint         string        `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey           string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	StubDelay        time.Duration `mapstructure:"stub_delay" yaml:"stub_delay"`
	DataDir          string        `mapstructure:"data_dir" yaml:"data_dir"`
	ExportDir        string        `mapstructure:"export_dir" yaml:"export_dir"`
	LogLevel         string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile          string        `mapstructure:"log_file" yaml:"log_file"` // "-" logs to stderr
	ContentType      string        `mapstructure:"content_type" yaml:"content_type"`
	ReviewTemplate   string        `mapstructure:"review_template" yaml:"review_template"`
	AnalysisTemplate string        `mapstructure:"analysis_template" yaml:"analysis_template"`
	History          bool          `mapstructure:"history" yaml:"history"`
}

// Defaults returns a Config populated with the same defaults Load applies.
func Defaults() *Config {
	return &Config{
		Generator:   GeneratorStub,
		StubDelay:   2 * time.Second,
		DataDir:     ".stylewiz",
		ExportDir:   ".",
		LogLevel:    "info",
		ContentType: "pillar",
		History:     true,
	}
}

// envKeys lists every key bound to a STYLEWIZ_ environment variable.
var envKeys = []string{
	"model",
	"generator",
	"endpoint",
	"api_key",
	"stub_delay",
	"data_dir",
	"export_dir",
	"log_level",
	"log_file",
	"content_type",
	"review_template",
	"analysis_template",
	"history",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults.
// CLI flags are applied by the caller on the returned Config.
// A .env file in the working directory is loaded first; it never overrides
// variables already present in the environment.
func Load() (*Config, error) {
	if fileExists(".env") {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("stylewiz")

	// model has no default - it's required before leaving the config step
	d := Defaults()
	v.SetDefault("generator", d.Generator)
	v.SetDefault("endpoint", "")
	v.SetDefault("api_key", "")
	v.SetDefault("stub_delay", d.StubDelay)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("export_dir", d.ExportDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("content_type", d.ContentType)
	v.SetDefault("review_template", "")
	v.SetDefault("analysis_template", "")
	v.SetDefault("history", d.History)

	v.SetEnvPrefix("STYLEWIZ")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		if err := v.BindEnv(key, "STYLEWIZ_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside the wizard.
func (c *Config) Validate() error {
	switch c.Generator {
	case GeneratorStub:
	case GeneratorHTTP:
		if c.Endpoint == "" {
			return fmt.Errorf("generator %q requires an endpoint", c.Generator)
		}
	default:
		return fmt.Errorf("unknown generator %q (want %q or %q)", c.Generator, GeneratorStub, GeneratorHTTP)
	}
	if c.StubDelay < 0 {
		return fmt.Errorf("stub_delay must not be negative")
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/stylewiz/stylewiz.yml or $XDG_CONFIG_HOME/stylewiz/stylewiz.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stylewiz", "stylewiz.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stylewiz", "stylewiz.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "stylewiz.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// API keys may end up in here, keep the file private
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
