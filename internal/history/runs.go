package history

import (
	"database/sql"
	"fmt"
	"time"
)

// RunStatus represents the terminal state of a recorded run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCanceled  RunStatus = "canceled"
)

// Run is one recorded expansion run.
type Run struct {
	// ID is the unique run identifier.
	ID string `json:"id"`
	// DocumentPath is the input document the run parsed.
	DocumentPath string `json:"document_path"`
	// OutputPath is where the rendered hierarchy was written.
	OutputPath string `json:"output_path"`
	// Format is the render format used for the output file.
	Format string `json:"format"`
	// Model is the model the run generated with.
	Model string `json:"model"`
	// MaxDepth is the depth bound the run used.
	MaxDepth int `json:"max_depth"`
	// StepLimit is the expansion cycle cap the run used.
	StepLimit int `json:"step_limit"`
	// Status is the run's current or terminal state.
	Status RunStatus `json:"status"`
	// Error holds the failure message for failed runs.
	Error string `json:"error,omitempty"`
	// TaskCount is the total number of tasks in the final tree.
	TaskCount int `json:"task_count"`
	// Steps is the number of expansion cycles executed.
	Steps int `json:"steps"`
	// InputTokens is the total input token usage.
	InputTokens int `json:"input_tokens"`
	// OutputTokens is the total output token usage.
	OutputTokens int `json:"output_tokens"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the run ended, nil while running.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// CreateRun records a new run in running state.
func (db *DB) CreateRun(r *Run) error {
	if r.Status == "" {
		r.Status = RunRunning
	}
	_, err := db.Exec(`
		INSERT INTO runs (id, document_path, output_path, format, model, max_depth, step_limit, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.DocumentPath, r.OutputPath, r.Format, r.Model, r.MaxDepth, r.StepLimit, string(r.Status), formatTime(r.StartedAt))
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// FinishRun records a run's terminal state and final counters.
func (db *DB) FinishRun(r *Run) error {
	finishedAt := time.Now()
	if r.FinishedAt != nil {
		finishedAt = *r.FinishedAt
	} else {
		r.FinishedAt = &finishedAt
	}

	_, err := db.Exec(`
		UPDATE runs
		SET status = ?, error = ?, task_count = ?, steps = ?, input_tokens = ?, output_tokens = ?, finished_at = ?
		WHERE id = ?
	`, string(r.Status), r.Error, r.TaskCount, r.Steps, r.InputTokens, r.OutputTokens, formatTime(finishedAt), r.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns nil if no run matches.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`
		SELECT id, document_path, output_path, format, model, max_depth, step_limit, status, error, task_count, steps, input_tokens, output_tokens, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListRuns lists recorded runs newest first. A limit of 0 lists all runs.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT id, document_path, output_path, format, model, max_depth, step_limit, status, error, task_count, steps, input_tokens, output_tokens, started_at, finished_at
		FROM runs ORDER BY started_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// DeleteRun deletes a run by ID.
func (db *DB) DeleteRun(id string) error {
	_, err := db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var errMsg sql.NullString
	var model sql.NullString
	var startedAt string
	var finishedAt sql.NullString

	err := s.Scan(&r.ID, &r.DocumentPath, &r.OutputPath, &r.Format, &model, &r.MaxDepth, &r.StepLimit,
		&r.Status, &errMsg, &r.TaskCount, &r.Steps, &r.InputTokens, &r.OutputTokens, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	r.Model = model.String
	r.Error = errMsg.String
	r.StartedAt, _ = parseTime(startedAt)
	r.FinishedAt = parseNullableTime(finishedAt)
	return &r, nil
}
