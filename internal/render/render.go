// Package render turns a task tree into its output document formats and
// writes the result to disk. Markdown is the primary format; yaml and json
// exports carry the full tree for downstream tooling.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/taskforge/pkg/models"
)

// Format selects the output document format.
type Format string

const (
	// FormatMarkdown renders the human-readable hierarchy document.
	FormatMarkdown Format = "markdown"
	// FormatYAML renders the full tree as YAML.
	FormatYAML Format = "yaml"
	// FormatJSON renders the full tree as indented JSON.
	FormatJSON Format = "json"
)

// Valid returns true if the format is a known output format.
func (f Format) Valid() bool {
	switch f {
	case FormatMarkdown, FormatYAML, FormatJSON:
		return true
	}
	return false
}

// ParseFormat resolves a user-supplied format name, accepting the common
// short spellings.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want markdown, yaml, or json)", s)
}

// Ext returns the conventional file extension for the format, without dot.
func (f Format) Ext() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "md"
	}
}

// document is the export envelope shared by the yaml and json formats.
type document struct {
	Tasks []*models.Task `json:"tasks" yaml:"tasks"`
}

// Render produces the tree in the requested format.
func Render(roots []*models.Task, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return []byte(Markdown(roots)), nil
	case FormatYAML:
		return YAML(roots)
	case FormatJSON:
		return JSON(roots)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// YAML renders the full tree as a yaml document under a top-level tasks key.
func YAML(roots []*models.Task) ([]byte, error) {
	if roots == nil {
		roots = []*models.Task{}
	}
	data, err := yaml.Marshal(document{Tasks: roots})
	if err != nil {
		return nil, fmt.Errorf("marshal task tree: %w", err)
	}
	return data, nil
}

// JSON renders the full tree as indented json under a top-level tasks key.
func JSON(roots []*models.Task) ([]byte, error) {
	if roots == nil {
		roots = []*models.Task{}
	}
	data, err := json.MarshalIndent(document{Tasks: roots}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task tree: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes rendered output to path, creating parent directories as
// needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output file %s: %w", path, err)
	}
	return nil
}
