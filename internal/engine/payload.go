package engine

import (
	"strings"

	"github.com/ShayCichocki/taskforge/pkg/models"
)

// taskPayload is the wire shape of one generated task. Generator-supplied
// ids are deliberately not decoded: the engine assigns ids positionally so
// tree-wide uniqueness never depends on model output.
type taskPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Details      string   `json:"details"`
	TestStrategy string   `json:"testStrategy"`
	Priority     string   `json:"priority"`
	Status       string   `json:"status"`
	Dependencies []string `json:"dependencies"`
}

// tasksPayload is the response envelope for document parsing.
type tasksPayload struct {
	Tasks []taskPayload `json:"tasks"`
}

// subtasksPayload is the response envelope for task expansion.
type subtasksPayload struct {
	Subtasks []taskPayload `json:"subtasks"`
}

// toTask converts the payload into a tree node carrying the assigned id.
// Missing fields get their defaults and the subtasks slice starts empty so
// the node is immediately eligible for expansion.
func (p taskPayload) toTask(id, fallbackTitle string) *models.Task {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = fallbackTitle
	}

	deps := p.Dependencies
	if deps == nil {
		deps = []string{}
	}

	return &models.Task{
		ID:           id,
		Title:        title,
		Description:  p.Description,
		Details:      p.Details,
		TestStrategy: p.TestStrategy,
		Priority:     models.NormalizePriority(p.Priority),
		Status:       models.NormalizeStatus(p.Status),
		Dependencies: deps,
		Subtasks:     []*models.Task{},
	}
}
