package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskforge/internal/config"
	"github.com/ShayCichocki/taskforge/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify taskforge configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/taskforge/config.yaml
Project-specific overrides can be placed in .taskforge.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	key, _ := config.GetAPIKey(cfg)
	source := config.GetAPIKeySource(cfg)

	fmt.Printf("anthropic.api_key: %s (source: %s)\n", config.MaskAPIKey(key), source)
	fmt.Printf("anthropic.model: %s\n", orUnset(cfg.Anthropic.Model))
	fmt.Printf("aws.use_bedrock: %t\n", cfg.AWS.UseBedrock)
	fmt.Printf("aws.region: %s\n", orUnset(cfg.AWS.Region))
	fmt.Printf("aws.profile: %s\n", orUnset(cfg.AWS.Profile))
	fmt.Printf("defaults.max_depth: %d\n", cfg.Defaults.MaxDepth)
	fmt.Printf("defaults.step_limit: %d\n", cfg.Defaults.StepLimit)
	fmt.Printf("defaults.task_count: %d\n", cfg.Defaults.TaskCount)
	fmt.Printf("defaults.subtask_count: %d\n", cfg.Defaults.SubtaskCount)
	fmt.Printf("defaults.output_format: %s\n", cfg.Defaults.OutputFormat)
	fmt.Printf("prompts.dir: %s\n", orUnset(cfg.Prompts.Dir))

	fmt.Println()
	fmt.Printf("User config: %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Printf("Project config: %s\n", project)
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	if key == "anthropic.api_key" {
		fmt.Printf("Set %s = %s\n", key, config.MaskAPIKey(value))
		return
	}
	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		apiKey, _ := config.GetAPIKey(cfg)
		return config.MaskAPIKey(apiKey), nil
	case "anthropic.model":
		return orUnset(cfg.Anthropic.Model), nil
	case "aws.use_bedrock":
		return strconv.FormatBool(cfg.AWS.UseBedrock), nil
	case "aws.region":
		return orUnset(cfg.AWS.Region), nil
	case "aws.profile":
		return orUnset(cfg.AWS.Profile), nil
	case "defaults.max_depth":
		return strconv.Itoa(cfg.Defaults.MaxDepth), nil
	case "defaults.step_limit":
		return strconv.Itoa(cfg.Defaults.StepLimit), nil
	case "defaults.task_count":
		return strconv.Itoa(cfg.Defaults.TaskCount), nil
	case "defaults.subtask_count":
		return strconv.Itoa(cfg.Defaults.SubtaskCount), nil
	case "defaults.output_format":
		return cfg.Defaults.OutputFormat, nil
	case "prompts.dir":
		return orUnset(cfg.Prompts.Dir), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "aws.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for aws.use_bedrock: %w", err)
		}
		cfg.AWS.UseBedrock = b
	case "aws.region":
		cfg.AWS.Region = value
	case "aws.profile":
		cfg.AWS.Profile = value
	case "defaults.max_depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_depth: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("max_depth must be zero or greater, got %d", n)
		}
		cfg.Defaults.MaxDepth = n
	case "defaults.step_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for step_limit: %w", err)
		}
		if n < 1 {
			return fmt.Errorf("step_limit must be at least 1, got %d", n)
		}
		cfg.Defaults.StepLimit = n
	case "defaults.task_count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for task_count: %w", err)
		}
		cfg.Defaults.TaskCount = n
	case "defaults.subtask_count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for subtask_count: %w", err)
		}
		cfg.Defaults.SubtaskCount = n
	case "defaults.output_format":
		format, err := render.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.Defaults.OutputFormat = string(format)
	case "prompts.dir":
		cfg.Prompts.Dir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
