package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ShayCichocki/taskforge/internal/api"
	"github.com/ShayCichocki/taskforge/internal/envelope"
	"github.com/ShayCichocki/taskforge/pkg/models"
)

// parseDocument turns the session document into the top-level task list.
// Top-level ids are assigned sequentially from "1" in response order. On
// success it replaces RootTasks wholesale and clears Err; on failure it
// records an InputError or ParseError and leaves RootTasks alone.
func (e *Engine) parseDocument(ctx context.Context, s *Session) {
	e.emit(Event{Type: EventParseStarted, Message: "Parsing document into top-level tasks"})

	if strings.TrimSpace(s.DocumentContent) == "" {
		s.Err = &InputError{Err: errors.New("document content is empty")}
		return
	}

	system, user := e.prompts.Parse(s.DocumentContent, e.taskCount)
	response, err := e.gen.Generate(ctx, api.GenerateRequest{
		Prompt:       user,
		SystemPrompt: system,
		MaxTokens:    parseMaxTokens,
	})
	if err != nil {
		s.Err = &ParseError{Err: fmt.Errorf("generate: %w", err)}
		return
	}

	raw, err := envelope.Extract(response)
	if err != nil {
		s.Err = &ParseError{Err: err}
		return
	}

	var payload tasksPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.Err = &ParseError{Err: fmt.Errorf("decode task list: %w", err)}
		return
	}

	tasks := make([]*models.Task, 0, len(payload.Tasks))
	for i, p := range payload.Tasks {
		tasks = append(tasks, p.toTask(strconv.Itoa(i+1), models.DefaultTaskTitle))
	}

	s.RootTasks = tasks
	s.Err = nil
	e.logger.Log("parsed %d top-level tasks", len(tasks))
	e.emit(Event{
		Type:      EventParseCompleted,
		TaskCount: len(tasks),
		Message:   fmt.Sprintf("Parsed %d top-level tasks", len(tasks)),
	})
}
