// Package config handles configuration loading and management for taskforge.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for taskforge.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic" yaml:"anthropic"`
	AWS       AWSConfig       `mapstructure:"aws" yaml:"aws"`
	Defaults  DefaultsConfig  `mapstructure:"defaults" yaml:"defaults"`
	Prompts   PromptsConfig   `mapstructure:"prompts" yaml:"prompts"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// Model overrides the default Claude model.
	Model string `mapstructure:"model" yaml:"model"`
}

// AWSConfig holds AWS Bedrock settings.
type AWSConfig struct {
	// UseBedrock routes generation through AWS Bedrock instead of the
	// Anthropic API.
	UseBedrock bool `mapstructure:"use_bedrock" yaml:"use_bedrock"`
	// Region is the AWS region for Bedrock calls.
	Region string `mapstructure:"region" yaml:"region"`
	// Profile is the shared AWS config profile to use.
	Profile string `mapstructure:"profile" yaml:"profile"`
}

// DefaultsConfig holds default values for taskforge runs.
type DefaultsConfig struct {
	// MaxDepth is the default expansion depth bound.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
	// StepLimit is the default cap on expansion cycles per run.
	StepLimit int `mapstructure:"step_limit" yaml:"step_limit"`
	// TaskCount is the target number of top-level tasks.
	TaskCount int `mapstructure:"task_count" yaml:"task_count"`
	// SubtaskCount is the number of subtasks requested per expansion.
	SubtaskCount int `mapstructure:"subtask_count" yaml:"subtask_count"`
	// OutputFormat is the default render format (markdown, yaml, json).
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
}

// PromptsConfig holds prompt template settings.
type PromptsConfig struct {
	// Dir points at a directory of prompt template overrides.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.taskforge.yaml in current directory or parent)
// 3. User config (~/.config/taskforge/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config overrides the user config where present.
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")

	v.SetDefault("aws.use_bedrock", false)
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")

	v.SetDefault("defaults.max_depth", 1)
	v.SetDefault("defaults.step_limit", 25)
	v.SetDefault("defaults.task_count", 5)
	v.SetDefault("defaults.subtask_count", 3)
	v.SetDefault("defaults.output_format", "markdown")

	v.SetDefault("prompts.dir", filepath.Join(".taskforge", "prompts"))
}

// getUserConfigDir returns the XDG config directory for taskforge.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "taskforge")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "taskforge")
	}
	return filepath.Join(home, ".config", "taskforge")
}

// findProjectConfig searches for .taskforge.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".taskforge.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			MaxDepth:     1,
			StepLimit:    25,
			TaskCount:    5,
			SubtaskCount: 3,
			OutputFormat: "markdown",
		},
		Prompts: PromptsConfig{
			Dir: filepath.Join(".taskforge", "prompts"),
		},
	}
}
