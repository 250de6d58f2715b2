package models

import (
	"fmt"
	"strings"
)

// Priority represents how urgent a task is relative to its siblings.
type Priority string

const (
	// PriorityLow indicates the task can wait.
	PriorityLow Priority = "low"
	// PriorityMedium is the default priority for generated tasks.
	PriorityMedium Priority = "medium"
	// PriorityHigh indicates the task should be tackled first.
	PriorityHigh Priority = "high"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// NormalizePriority maps a generator-supplied priority string onto a known
// Priority, falling back to PriorityMedium for anything unrecognized.
func NormalizePriority(s string) Priority {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return PriorityMedium
	}
	return p
}

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress indicates the task is being worked on.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusBlocked indicates the task cannot proceed.
	TaskStatusBlocked TaskStatus = "blocked"
	// TaskStatusDone indicates the task completed successfully.
	TaskStatusDone TaskStatus = "done"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusBlocked, TaskStatusDone, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// NormalizeStatus maps a generator-supplied status string onto a known
// TaskStatus, falling back to TaskStatusPending for anything unrecognized.
func NormalizeStatus(s string) TaskStatus {
	st := TaskStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return TaskStatusPending
	}
	return st
}

// Default titles used when the generator omits one.
const (
	// DefaultTaskTitle fills in for unnamed top-level tasks.
	DefaultTaskTitle = "Untitled Task"
	// DefaultSubtaskTitle fills in for unnamed subtasks.
	DefaultSubtaskTitle = "Untitled Subtask"
)

// Task is a single node in a task hierarchy. A task is owned exclusively by
// its parent's Subtasks slice and appears exactly once in a tree.
type Task struct {
	// ID is the dotted hierarchy path of this task, e.g. "2" or "2.1.3".
	// The number of dots equals the task's depth.
	ID string `json:"id" yaml:"id"`
	// Title is the short name of the task.
	Title string `json:"title" yaml:"title"`
	// Description summarizes what the task delivers.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Details carries implementation notes for whoever picks up the task.
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
	// TestStrategy describes how the task's result should be verified.
	TestStrategy string `json:"testStrategy,omitempty" yaml:"testStrategy,omitempty"`
	// Priority is the scheduling hint for the task.
	Priority Priority `json:"priority" yaml:"priority"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status" yaml:"status"`
	// Dependencies lists ids of tasks this task waits on. The ids are kept
	// as references only and are never validated against the tree.
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	// Subtasks holds the task's children in creation order.
	Subtasks []*Task `json:"subtasks" yaml:"subtasks"`
}

// Depth returns the nesting depth encoded in a task id: "3" has depth 0,
// "3.1.2" has depth 2. The empty id counts as depth 0.
func Depth(id string) int {
	if id == "" {
		return 0
	}
	return strings.Count(id, ".")
}

// Depth reports how deep the task sits in its tree.
func (t *Task) Depth() int {
	return Depth(t.ID)
}

// ChildID builds the id of the n-th child (1-based) of the given parent id.
func ChildID(parentID string, n int) string {
	return fmt.Sprintf("%s.%d", parentID, n)
}

// Normalize fills generator-omitted fields with defaults and guarantees the
// slice fields are non-nil. It recurses into subtasks.
func (t *Task) Normalize() {
	if strings.TrimSpace(t.Title) == "" {
		t.Title = DefaultTaskTitle
	}
	t.Priority = NormalizePriority(string(t.Priority))
	t.Status = NormalizeStatus(string(t.Status))
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []*Task{}
	}
	for _, sub := range t.Subtasks {
		sub.Normalize()
	}
}

// FindByID returns the task with the given id, searching the forest in tree
// order. It returns nil when no task matches.
func FindByID(roots []*Task, id string) *Task {
	for _, t := range roots {
		if t.ID == id {
			return t
		}
		if found := FindByID(t.Subtasks, id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every task in tree order, parents before their subtasks.
func Walk(roots []*Task, visit func(*Task)) {
	for _, t := range roots {
		visit(t)
		Walk(t.Subtasks, visit)
	}
}

// Count returns the number of tasks in the forest, subtasks included.
func Count(roots []*Task) int {
	n := 0
	Walk(roots, func(*Task) { n++ })
	return n
}
