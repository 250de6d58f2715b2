package engine

import "github.com/ShayCichocki/taskforge/pkg/models"

// Session carries the mutable state of a single run through the engine's
// steps. Steps mutate only their own scope: the parser writes RootTasks, the
// expander appends to one parent's subtasks, and both record failures into
// Err instead of returning them upward.
type Session struct {
	// DocumentContent is the source text the hierarchy derives from. It is
	// never mutated after construction.
	DocumentContent string
	// RootTasks is the task forest and the single source of truth for the
	// hierarchy. Any top-level view derives from it on demand.
	RootTasks []*models.Task
	// CurrentTask references the node selected for the next expansion. It
	// is nil between cycles; the expander clears it whether it succeeds or
	// fails.
	CurrentTask *models.Task
	// Err is the first failure recorded by any step. Once set, the run is
	// terminal and no further expansion happens.
	Err error
	// Steps counts the expansion cycles executed so far.
	Steps int
}

// NewSession builds a run session over the given document content.
func NewSession(content string) *Session {
	return &Session{
		DocumentContent: content,
		RootTasks:       []*models.Task{},
	}
}

// TaskCount returns the total number of tasks currently in the tree.
func (s *Session) TaskCount() int {
	return models.Count(s.RootTasks)
}
