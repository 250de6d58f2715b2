package engine

import (
	"github.com/ShayCichocki/taskforge/internal/api"
	"github.com/ShayCichocki/taskforge/internal/prompt"
)

// RequiredConfig contains the minimal required configuration for an Engine.
// All fields are required and have no defaults.
type RequiredConfig struct {
	// Generator produces model completions for parse and expansion prompts.
	Generator api.Generator
}

// Option configures an Engine. Use With* functions to create Options.
type Option func(*engineOptions)

// engineOptions holds all optional configuration applied during construction.
type engineOptions struct {
	maxDepth     int
	stepLimit    int
	taskCount    int
	subtaskCount int
	prompts      *prompt.Store
	logger       *DebugLogger
}

// WithMaxDepth sets how deep expansion may go. 0 keeps the hierarchy at
// top-level tasks only, 1 adds one level of subtasks, and so on. Negative
// values fall back to the default.
func WithMaxDepth(n int) Option {
	return func(o *engineOptions) { o.maxDepth = n }
}

// WithStepLimit caps the number of expansion cycles a run may execute.
// Values below 1 fall back to the default.
func WithStepLimit(n int) Option {
	return func(o *engineOptions) { o.stepLimit = n }
}

// WithTaskCount sets the approximate number of top-level tasks requested
// from the generator.
func WithTaskCount(n int) Option {
	return func(o *engineOptions) { o.taskCount = n }
}

// WithSubtaskCount sets the exact number of subtasks requested per
// expansion.
func WithSubtaskCount(n int) Option {
	return func(o *engineOptions) { o.subtaskCount = n }
}

// WithPrompts sets the prompt template store.
func WithPrompts(s *prompt.Store) Option {
	return func(o *engineOptions) { o.prompts = s }
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(o *engineOptions) { o.logger = l }
}
