package render

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/taskforge/pkg/models"
)

const markdownHeader = "# Project Task Hierarchy\n\n"

// Markdown renders the hierarchy document. Top-level tasks start at H2 and
// each nesting level adds one heading level; details and test strategy render
// as indented fenced blocks with backticks escaped so generated content can't
// break out of its fence.
func Markdown(roots []*models.Task) string {
	var b strings.Builder
	b.WriteString(markdownHeader)
	if len(roots) == 0 {
		b.WriteString("No tasks were generated or found.\n")
		return b.String()
	}
	for _, task := range roots {
		b.WriteString(formatTask(task, 2))
		b.WriteString("\n---\n\n")
	}
	return b.String()
}

// formatTask renders one task block at the given heading level, with its
// subtasks nested one level deeper under a "Subtasks for" heading.
func formatTask(task *models.Task, level int) string {
	heading := strings.Repeat("#", level)

	lines := []string{
		fmt.Sprintf("%s Task: %s (ID: %s)", heading, orNA(task.Title), orNA(task.ID)),
		fmt.Sprintf("- **Description:** %s", orNA(task.Description)),
		fmt.Sprintf("- **Priority:** %s", fallback(string(task.Priority), string(models.PriorityMedium))),
		fmt.Sprintf("- **Status:** %s", fallback(string(task.Status), string(models.TaskStatusPending))),
	}

	if task.Details != "" {
		lines = append(lines, fmt.Sprintf("- **Details:**\n  ```\n%s\n  ```", escapeBackticks(task.Details)))
	} else {
		lines = append(lines, "- **Details:** N/A")
	}

	if task.TestStrategy != "" {
		lines = append(lines, fmt.Sprintf("- **Test Strategy:**\n  ```\n%s\n  ```", escapeBackticks(task.TestStrategy)))
	} else {
		lines = append(lines, "- **Test Strategy:** N/A")
	}

	if len(task.Dependencies) > 0 {
		lines = append(lines, fmt.Sprintf("- **Dependencies:** %s", strings.Join(task.Dependencies, ", ")))
	} else {
		lines = append(lines, "- **Dependencies:** None")
	}

	lines = append(lines, "")

	if len(task.Subtasks) > 0 {
		lines = append(lines, fmt.Sprintf("%s# Subtasks for %s:", heading, orNA(task.ID)), "")
		for _, sub := range task.Subtasks {
			lines = append(lines, formatTask(sub, level+1))
		}
	}

	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func escapeBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "\\`")
}
