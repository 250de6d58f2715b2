// Package tui provides the terminal user interface for taskforge. It shows
// a live view of an expansion run: current phase, tree counters, token usage,
// and a feed of recent engine events.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/taskforge/internal/engine"
)

// maxFeedEntries bounds the event feed kept in memory.
const maxFeedEntries = 50

// EngineEventMsg wraps an engine event for the TUI. Token counts are
// snapshots taken when the event was forwarded.
type EngineEventMsg struct {
	Event        engine.Event
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// RunDoneMsg signals that the run finished and the output file was written.
type RunDoneMsg struct {
	Err          error
	TaskCount    int
	Steps        int
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// tickMsg drives the elapsed-time display.
type tickMsg time.Time

// RunInfo describes the run the TUI is displaying.
type RunInfo struct {
	// RunID is the unique id recorded in history.
	RunID string
	// DocumentPath is the input document.
	DocumentPath string
	// OutputPath is where the hierarchy will be written.
	OutputPath string
	// Model is the generating model name.
	Model string
	// MaxDepth is the expansion depth bound.
	MaxDepth int
	// StepLimit is the expansion cycle cap.
	StepLimit int
	// Cancel stops the run when the user presses ctrl+c.
	Cancel func()
}

type appState int

const (
	stateRunning appState = iota
	stateCancelling
	stateDone
)

// feedEntry is one line in the recent-events feed.
type feedEntry struct {
	ts    time.Time
	text  string
	isErr bool
}

// App is the main bubbletea model for the taskforge TUI.
type App struct {
	info    RunInfo
	spinner spinner.Model

	state appState
	phase string

	steps     int
	taskCount int
	queueLen  int

	inputTokens  int
	outputTokens int
	cost         float64

	feed []feedEntry

	finalErr error
	quitting bool

	startTime time.Time
	width     int
	height    int
}

// New creates a new App for the given run.
func New(info RunInfo) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &App{
		info:      info,
		spinner:   s,
		phase:     "Starting run",
		startTime: time.Now(),
		feed:      make([]feedEntry, 0, maxFeedEntries),
	}
}

// NewProgram creates a Bubble Tea program for the app. The returned program
// receives EngineEventMsg and RunDoneMsg via Send().
func NewProgram(info RunInfo) (*tea.Program, *App) {
	app := New(info)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.tickCmd())
}

// tickCmd schedules the next elapsed-time update.
func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case spinner.TickMsg:
		if a.state != stateDone {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}

	case tickMsg:
		if a.state != stateDone {
			return a, a.tickCmd()
		}

	case EngineEventMsg:
		a.handleEngineEvent(msg)

	case RunDoneMsg:
		a.state = stateDone
		a.finalErr = msg.Err
		a.steps = msg.Steps
		a.taskCount = msg.TaskCount
		a.inputTokens = msg.InputTokens
		a.outputTokens = msg.OutputTokens
		a.cost = msg.Cost
	}

	return a, nil
}

// handleKey processes keyboard input based on the current state.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state {
	case stateRunning:
		if msg.String() == "ctrl+c" {
			a.state = stateCancelling
			a.phase = "Stopping after the current step"
			if a.info.Cancel != nil {
				a.info.Cancel()
			}
		}
	case stateCancelling:
		// Wait for the run to wind down.
	case stateDone:
		switch msg.String() {
		case "q", "ctrl+c", "enter":
			a.quitting = true
			return a, tea.Quit
		}
	}
	return a, nil
}

// handleEngineEvent folds an engine event into the display state.
func (a *App) handleEngineEvent(msg EngineEventMsg) {
	ev := msg.Event

	a.inputTokens = msg.InputTokens
	a.outputTokens = msg.OutputTokens
	a.cost = msg.Cost
	if ev.Step > 0 {
		a.steps = ev.Step
	}
	if ev.TaskCount > 0 {
		a.taskCount = ev.TaskCount
	}
	a.queueLen = ev.QueueLen

	switch ev.Type {
	case engine.EventParseStarted:
		a.phase = "Parsing document into top-level tasks"
	case engine.EventParseCompleted:
		a.phase = "Planning expansions"
	case engine.EventExpandStarted:
		a.phase = fmt.Sprintf("Expanding task %s: %s", ev.TaskID, ev.TaskTitle)
	case engine.EventExpandCompleted:
		a.phase = "Planning expansions"
	}

	if ev.Message != "" {
		a.pushFeed(feedEntry{ts: ev.Timestamp, text: ev.Message, isErr: ev.Err != nil})
	}
}

// pushFeed appends an entry, keeping the feed bounded.
func (a *App) pushFeed(entry feedEntry) {
	a.feed = append(a.feed, entry)
	if len(a.feed) > maxFeedEntries {
		a.feed = a.feed[len(a.feed)-maxFeedEntries:]
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("taskforge") + " " + subtleStyle.Render(a.info.RunID))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s → %s\n", a.info.DocumentPath, a.info.OutputPath))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("model %s · depth bound %d · step cap %d",
		a.info.Model, a.info.MaxDepth, a.info.StepLimit)))
	b.WriteString("\n\n")

	b.WriteString(a.viewStatus())
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Steps %d/%d   Tasks %d   Queue %d   Elapsed %s\n",
		a.steps, a.info.StepLimit, a.taskCount, a.queueLen, formatElapsed(time.Since(a.startTime))))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("Tokens in %s out %s ($%.2f)",
		formatTokens(a.inputTokens), formatTokens(a.outputTokens), a.cost)))
	b.WriteString("\n\n")

	b.WriteString(subtleStyle.Render("Recent"))
	b.WriteString("\n")
	b.WriteString(a.viewFeed())
	b.WriteString("\n")
	b.WriteString(a.viewFooter())

	return b.String()
}

// viewStatus renders the spinner-or-result line.
func (a *App) viewStatus() string {
	switch a.state {
	case stateDone:
		if a.finalErr != nil {
			return errorStyle.Render("✗") + " " + a.finalErr.Error()
		}
		return successStyle.Render("✓") + fmt.Sprintf(" Wrote %s", a.info.OutputPath)
	default:
		return a.spinner.View() + " " + a.phase
	}
}

// viewFeed renders the most recent events, newest last.
func (a *App) viewFeed() string {
	if len(a.feed) == 0 {
		return subtleStyle.Render("  (waiting...)") + "\n"
	}

	shown := 10
	if a.height > 0 {
		// Feed lines sit below roughly a dozen fixed chrome lines.
		if budget := a.height - 12; budget > 0 && budget < shown {
			shown = budget
		}
	}
	start := 0
	if len(a.feed) > shown {
		start = len(a.feed) - shown
	}

	var b strings.Builder
	for _, entry := range a.feed[start:] {
		line := fmt.Sprintf("  %s %s", entry.ts.Format("15:04:05"), entry.text)
		if entry.isErr {
			line = errorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// viewFooter renders the help line for the current state.
func (a *App) viewFooter() string {
	switch a.state {
	case stateDone:
		return subtleStyle.Render("Press q to exit")
	case stateCancelling:
		return subtleStyle.Render("Stopping...")
	default:
		return subtleStyle.Render("Ctrl+C to stop")
	}
}

// Done reports whether the run has reached a terminal state.
func (a *App) Done() bool {
	return a.state == stateDone
}

// formatElapsed formats a duration as MM:SS or HH:MM:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// formatTokens formats token counts in a compact human-readable form.
func formatTokens(tokens int) string {
	if tokens >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(tokens)/1000000)
	}
	if tokens >= 1000 {
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	}
	return fmt.Sprintf("%d", tokens)
}
