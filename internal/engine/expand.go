package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ShayCichocki/taskforge/internal/api"
	"github.com/ShayCichocki/taskforge/internal/envelope"
	"github.com/ShayCichocki/taskforge/pkg/models"
)

// expandTask expands the session's current task into subtasks. Subtask ids
// extend the parent id with a dot and a 1-based index continuing after any
// existing children, preserving response order. The batch appends atomically:
// on any failure the parent's subtasks are untouched and an ExpansionError
// tagged with the parent id lands in the session. The current-task ref is
// consumed either way, so a failed parent is not retried.
func (e *Engine) expandTask(ctx context.Context, s *Session, queueLen int) {
	current := s.CurrentTask
	if current == nil {
		s.Err = errors.New("no task selected for expansion")
		return
	}

	// The ref must still name a live node in the tree.
	parent := models.FindByID(s.RootTasks, current.ID)
	if parent == nil {
		s.CurrentTask = nil
		s.Err = &LookupError{TaskID: current.ID}
		return
	}

	defer func() { s.CurrentTask = nil }()

	e.emit(Event{
		Type:      EventExpandStarted,
		TaskID:    parent.ID,
		TaskTitle: parent.Title,
		Step:      s.Steps,
		QueueLen:  queueLen,
		Message:   fmt.Sprintf("Expanding task %s: %s", parent.ID, parent.Title),
	})

	nextIndex := len(parent.Subtasks) + 1
	system, user := e.prompts.Expand(parent, e.subtaskCount, nextIndex)

	response, err := e.gen.Generate(ctx, api.GenerateRequest{
		Prompt:       user,
		SystemPrompt: system,
		MaxTokens:    expandMaxTokens,
	})
	if err != nil {
		s.Err = &ExpansionError{TaskID: parent.ID, Err: fmt.Errorf("generate: %w", err)}
		return
	}

	raw, err := envelope.Extract(response)
	if err != nil {
		s.Err = &ExpansionError{TaskID: parent.ID, Err: err}
		return
	}

	var payload subtasksPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.Err = &ExpansionError{TaskID: parent.ID, Err: fmt.Errorf("decode subtask list: %w", err)}
		return
	}

	// Build the whole batch before touching the parent; an expansion appends
	// all of its subtasks or none of them.
	subtasks := make([]*models.Task, 0, len(payload.Subtasks))
	for i, p := range payload.Subtasks {
		id := models.ChildID(parent.ID, nextIndex+i)
		subtasks = append(subtasks, p.toTask(id, models.DefaultSubtaskTitle))
	}

	parent.Subtasks = append(parent.Subtasks, subtasks...)
	s.Err = nil

	e.logger.Log("added %d subtasks to task %s", len(subtasks), parent.ID)
	e.emit(Event{
		Type:      EventExpandCompleted,
		TaskID:    parent.ID,
		TaskTitle: parent.Title,
		Step:      s.Steps,
		QueueLen:  queueLen,
		TaskCount: s.TaskCount(),
		Message:   fmt.Sprintf("Added %d subtasks to task %s", len(subtasks), parent.ID),
	})
}
