package render

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/taskforge/pkg/models"
)

func hierarchyFixture() []*models.Task {
	return []*models.Task{
		{
			ID:           "1",
			Title:        "Setup Backend API",
			Description:  "Create the basic API structure",
			Details:      "Use the standard router. Set up CRUD endpoints.",
			TestStrategy: "Unit tests for each endpoint.",
			Priority:     models.PriorityHigh,
			Status:       models.TaskStatusPending,
			Dependencies: []string{},
			Subtasks: []*models.Task{
				{
					ID:           "1.1",
					Title:        "Define API Models",
					Description:  "Define request and response models",
					Priority:     models.PriorityHigh,
					Status:       models.TaskStatusPending,
					Dependencies: []string{"1"},
					Subtasks:     []*models.Task{},
				},
			},
		},
		{
			ID:           "2",
			Title:        "Develop UI Components",
			Priority:     models.PriorityMedium,
			Status:       models.TaskStatusPending,
			Dependencies: []string{},
			Subtasks:     []*models.Task{},
		},
	}
}

func TestMarkdown_Hierarchy(t *testing.T) {
	want := strings.Join([]string{
		"# Project Task Hierarchy",
		"",
		"## Task: Setup Backend API (ID: 1)",
		"- **Description:** Create the basic API structure",
		"- **Priority:** high",
		"- **Status:** pending",
		"- **Details:**",
		"  ```",
		"Use the standard router. Set up CRUD endpoints.",
		"  ```",
		"- **Test Strategy:**",
		"  ```",
		"Unit tests for each endpoint.",
		"  ```",
		"- **Dependencies:** None",
		"",
		"### Subtasks for 1:",
		"",
		"### Task: Define API Models (ID: 1.1)",
		"- **Description:** Define request and response models",
		"- **Priority:** high",
		"- **Status:** pending",
		"- **Details:** N/A",
		"- **Test Strategy:** N/A",
		"- **Dependencies:** 1",
		"",
		"---",
		"",
		"## Task: Develop UI Components (ID: 2)",
		"- **Description:** N/A",
		"- **Priority:** medium",
		"- **Status:** pending",
		"- **Details:** N/A",
		"- **Test Strategy:** N/A",
		"- **Dependencies:** None",
		"",
		"---",
		"",
		"",
	}, "\n")

	got := Markdown(hierarchyFixture())
	if got != want {
		t.Errorf("Markdown() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarkdown_Empty(t *testing.T) {
	want := "# Project Task Hierarchy\n\nNo tasks were generated or found.\n"
	if got := Markdown(nil); got != want {
		t.Errorf("Markdown(nil) = %q, want %q", got, want)
	}
	if got := Markdown([]*models.Task{}); got != want {
		t.Errorf("Markdown(empty) = %q, want %q", got, want)
	}
}

func TestMarkdown_EscapesBackticks(t *testing.T) {
	roots := []*models.Task{{
		ID:      "1",
		Title:   "Docs",
		Details: "Run `make docs` and check the `dist` folder.",
	}}

	got := Markdown(roots)
	if !strings.Contains(got, "Run \\`make docs\\` and check the \\`dist\\` folder.") {
		t.Errorf("backticks should be escaped inside the fenced block:\n%s", got)
	}
}

func TestMarkdown_HeadingLevelsFollowDepth(t *testing.T) {
	roots := []*models.Task{{
		ID:    "1",
		Title: "Root",
		Subtasks: []*models.Task{{
			ID:    "1.1",
			Title: "Child",
			Subtasks: []*models.Task{{
				ID:    "1.1.1",
				Title: "Grandchild",
			}},
		}},
	}}

	got := Markdown(roots)
	for _, want := range []string{
		"## Task: Root (ID: 1)",
		"### Subtasks for 1:",
		"### Task: Child (ID: 1.1)",
		"#### Subtasks for 1.1:",
		"#### Task: Grandchild (ID: 1.1.1)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdown_ZeroValueFallbacks(t *testing.T) {
	got := Markdown([]*models.Task{{}})

	for _, want := range []string{
		"## Task: N/A (ID: N/A)",
		"- **Priority:** medium",
		"- **Status:** pending",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
