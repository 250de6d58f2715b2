package engine

import "time"

// EventType represents the type of engine event.
type EventType string

const (
	// EventRunStarted indicates a run has started.
	EventRunStarted EventType = "run_started"
	// EventParseStarted indicates document parsing has started.
	EventParseStarted EventType = "parse_started"
	// EventParseCompleted indicates document parsing produced the top-level tasks.
	EventParseCompleted EventType = "parse_completed"
	// EventExpandStarted indicates a task expansion cycle has started.
	EventExpandStarted EventType = "expand_started"
	// EventExpandCompleted indicates a task expansion appended subtasks.
	EventExpandCompleted EventType = "expand_completed"
	// EventRunFailed indicates the run recorded a terminal error.
	EventRunFailed EventType = "run_failed"
	// EventRunCompleted indicates the run finished with the tree fully expanded.
	EventRunCompleted EventType = "run_completed"
)

// Event is emitted by the engine as a run progresses. Events feed the TUI
// and the headless printer; the engine never blocks on them.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the id of the related task, if applicable.
	TaskID string
	// TaskTitle is the title of the related task, if applicable.
	TaskTitle string
	// Message provides additional context about the event.
	Message string
	// Err contains error details for failure events.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Step is the number of expansion cycles executed so far.
	Step int
	// QueueLen is the number of eligible tasks remaining when the event fired.
	QueueLen int
	// TaskCount is the total number of tasks in the tree.
	TaskCount int
}
