package engine

import "fmt"

// InputError reports that the source document was missing, unreadable, or
// empty. Nothing was sent to the generator.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %v", e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ParseError reports that no task list could be recovered from a generator
// response while parsing the document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("document parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LookupError reports that a referenced task id is absent from the tree. It
// indicates an internal consistency fault, not a generation failure.
type LookupError struct {
	TaskID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("task %s not found in hierarchy for expansion", e.TaskID)
}

// ExpansionError reports a failed expansion of the parent task named by
// TaskID. The parent's subtasks are untouched when this error is recorded.
type ExpansionError struct {
	TaskID string
	Err    error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("task expansion error for task %s: %v", e.TaskID, e.Err)
}

func (e *ExpansionError) Unwrap() error {
	return e.Err
}

// RecursionLimitError reports that the step cap was reached while eligible
// tasks remained. The tree built so far is still valid.
type RecursionLimitError struct {
	Limit int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("recursion limit of %d reached before expansion finished", e.Limit)
}
