// Package engine implements the depth-bounded task hierarchy expansion loop:
// parse a document into top-level tasks, then repeatedly expand eligible
// tasks until the worklist drains or a limit ends the run. The loop is
// single-threaded; exactly one generation call is in flight at any time.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ShayCichocki/taskforge/internal/api"
	"github.com/ShayCichocki/taskforge/internal/prompt"
)

// Defaults for the run surface.
const (
	// DefaultMaxDepth expands one level of subtasks below the top level.
	DefaultMaxDepth = 1
	// DefaultStepLimit caps a run at 25 expansion cycles.
	DefaultStepLimit = 25
	// DefaultTaskCount is the approximate number of top-level tasks
	// requested when parsing a document.
	DefaultTaskCount = 5
	// DefaultSubtaskCount is the number of subtasks requested per expansion.
	DefaultSubtaskCount = 3
)

// Response budgets per step kind.
const (
	parseMaxTokens  = 4000
	expandMaxTokens = 3000
)

// Engine drives the parse-then-expand loop over a Session. Construct one
// with New and drive it with Run; an Engine is not safe for concurrent runs.
type Engine struct {
	gen          api.Generator
	prompts      *prompt.Store
	maxDepth     int
	stepLimit    int
	taskCount    int
	subtaskCount int
	logger       *DebugLogger

	// events is the channel for emitting run progress events.
	events chan Event
}

// New creates an Engine from required configuration plus options.
func New(req RequiredConfig, opts ...Option) (*Engine, error) {
	if req.Generator == nil {
		return nil, fmt.Errorf("engine requires a generator")
	}

	o := &engineOptions{
		maxDepth:     DefaultMaxDepth,
		stepLimit:    DefaultStepLimit,
		taskCount:    DefaultTaskCount,
		subtaskCount: DefaultSubtaskCount,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.maxDepth < 0 {
		o.maxDepth = DefaultMaxDepth
	}
	if o.stepLimit < 1 {
		o.stepLimit = DefaultStepLimit
	}
	if o.taskCount < 1 {
		o.taskCount = DefaultTaskCount
	}
	if o.subtaskCount < 1 {
		o.subtaskCount = DefaultSubtaskCount
	}
	if o.prompts == nil {
		o.prompts = prompt.NewStore("")
	}
	if o.logger == nil {
		o.logger = NopLogger()
	}

	return &Engine{
		gen:          req.Generator,
		prompts:      o.prompts,
		maxDepth:     o.maxDepth,
		stepLimit:    o.stepLimit,
		taskCount:    o.taskCount,
		subtaskCount: o.subtaskCount,
		logger:       o.logger,
		events:       make(chan Event, 100),
	}, nil
}

// MaxDepth returns the configured expansion depth bound.
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// StepLimit returns the configured expansion cycle cap.
func (e *Engine) StepLimit() int {
	return e.stepLimit
}

// Events returns the engine's event stream. The channel is buffered; when no
// consumer drains it, events are dropped rather than blocking the run loop.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Run parses the session document into top-level tasks and expands the tree
// until no eligible task remains. Each cycle rebuilds the worklist from the
// current tree, pops its first task, and expands it. The loop stops when the
// worklist drains, a step records a failure, the step cap is reached, or ctx
// is canceled.
//
// The returned error mirrors session.Err. The tree built so far stays on the
// session either way, so callers can always render partial results.
func (e *Engine) Run(ctx context.Context, s *Session) error {
	e.emit(Event{Type: EventRunStarted, Message: "Run started"})
	e.logger.Log("run started: maxDepth=%d stepLimit=%d", e.maxDepth, e.stepLimit)

	e.parseDocument(ctx, s)

	for {
		if s.Err != nil {
			break
		}
		if err := ctx.Err(); err != nil {
			s.CurrentTask = nil
			s.Err = err
			e.logger.Log("run canceled: %v", err)
			break
		}

		worklist := BuildWorklist(s.RootTasks, e.maxDepth)
		if len(worklist) == 0 {
			s.CurrentTask = nil
			e.logger.Log("worklist drained after %d cycles", s.Steps)
			break
		}
		if s.Steps >= e.stepLimit {
			s.CurrentTask = nil
			s.Err = &RecursionLimitError{Limit: e.stepLimit}
			e.logger.Log("step limit %d reached with %d tasks still eligible", e.stepLimit, len(worklist))
			break
		}

		s.Steps++
		s.CurrentTask = worklist[0]
		e.logger.Log("cycle %d: expanding task %s (%d eligible)", s.Steps, s.CurrentTask.ID, len(worklist))
		e.expandTask(ctx, s, len(worklist)-1)
	}

	if s.Err != nil {
		e.emit(Event{
			Type:      EventRunFailed,
			Err:       s.Err,
			Step:      s.Steps,
			TaskCount: s.TaskCount(),
			Message:   fmt.Sprintf("Run failed: %v", s.Err),
		})
		return s.Err
	}

	e.emit(Event{
		Type:      EventRunCompleted,
		Step:      s.Steps,
		TaskCount: s.TaskCount(),
		Message:   fmt.Sprintf("Run completed: %d tasks after %d expansions", s.TaskCount(), s.Steps),
	})
	return nil
}

// emit sends an event without ever blocking the run loop.
func (e *Engine) emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case e.events <- event:
	default:
		// Channel full, drop event to avoid blocking
	}
}
