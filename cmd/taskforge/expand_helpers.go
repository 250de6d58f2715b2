package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskforge/internal/config"
	"github.com/ShayCichocki/taskforge/internal/history"
	"github.com/ShayCichocki/taskforge/internal/render"
)

// expandSettings holds the effective settings for one expand run, after
// merging config values with explicit flags.
type expandSettings struct {
	DocumentPath string
	OutputPath   string
	Format       render.Format
	MaxDepth     int
	StepLimit    int
	TaskCount    int
	SubtaskCount int
	Model        string
	PromptsDir   string
	Headless     bool
	UseBedrock   bool
	AWSRegion    string
	AWSProfile   string
}

// resolveSettings merges config defaults with command-line flags. Explicit
// flags win over config values.
func resolveSettings(cmd *cobra.Command, cfg *config.Config, documentPath string) (expandSettings, error) {
	s := expandSettings{
		DocumentPath: documentPath,
		MaxDepth:     cfg.Defaults.MaxDepth,
		StepLimit:    cfg.Defaults.StepLimit,
		TaskCount:    cfg.Defaults.TaskCount,
		SubtaskCount: cfg.Defaults.SubtaskCount,
		Model:        cfg.Anthropic.Model,
		PromptsDir:   cfg.Prompts.Dir,
		Headless:     expandHeadless,
		UseBedrock:   cfg.AWS.UseBedrock,
		AWSRegion:    cfg.AWS.Region,
		AWSProfile:   cfg.AWS.Profile,
	}

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		s.MaxDepth = expandMaxDepth
	}
	if flags.Changed("step-limit") {
		s.StepLimit = expandStepLimit
	}
	if flags.Changed("tasks") {
		s.TaskCount = expandTaskCount
	}
	if flags.Changed("subtasks") {
		s.SubtaskCount = expandSubtaskCount
	}
	if flags.Changed("model") {
		s.Model = expandModel
	}
	if flags.Changed("prompts-dir") {
		s.PromptsDir = expandPromptsDir
	}
	if flags.Changed("bedrock") {
		s.UseBedrock = expandBedrock
	}
	if flags.Changed("aws-region") {
		s.AWSRegion = expandAWSRegion
	}
	if flags.Changed("aws-profile") {
		s.AWSProfile = expandAWSProfile
	}

	if s.MaxDepth < 0 {
		return s, fmt.Errorf("max depth must be zero or greater, got %d", s.MaxDepth)
	}
	if s.StepLimit < 1 {
		return s, fmt.Errorf("step limit must be at least 1, got %d", s.StepLimit)
	}

	formatName := cfg.Defaults.OutputFormat
	if flags.Changed("format") {
		formatName = expandFormat
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return s, err
	}
	s.Format = format

	s.OutputPath = expandOutput
	if s.OutputPath == "" {
		s.OutputPath = defaultOutputPath(format)
	}

	return s, nil
}

// defaultOutputPath names the output file for a format when -o is not given.
func defaultOutputPath(format render.Format) string {
	return "tasks." + format.Ext()
}

// newRunID builds a unique, time-sortable run identifier.
func newRunID(now time.Time) string {
	return fmt.Sprintf("run-%s-%s", now.Format("20060102-150405"), uuid.NewString()[:8])
}

// statusForRunError maps a run's error to its terminal history status.
func statusForRunError(err error) history.RunStatus {
	switch {
	case err == nil:
		return history.RunCompleted
	case errors.Is(err, context.Canceled):
		return history.RunCanceled
	default:
		return history.RunFailed
	}
}
