package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/taskforge/internal/engine"
)

func testRunInfo() RunInfo {
	return RunInfo{
		RunID:        "run-20250101-120000-abcd1234",
		DocumentPath: "docs/prd.md",
		OutputPath:   "tasks.md",
		Model:        "claude-sonnet-4-20250514",
		MaxDepth:     1,
		StepLimit:    25,
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew(t *testing.T) {
	app := New(testRunInfo())

	if app == nil {
		t.Fatal("New returned nil")
	}
	if app.Done() {
		t.Error("new app should not be done")
	}
	if app.phase != "Starting run" {
		t.Errorf("phase = %q, want %q", app.phase, "Starting run")
	}
}

func TestApp_Init(t *testing.T) {
	app := New(testRunInfo())

	if cmd := app.Init(); cmd == nil {
		t.Error("Init should return spinner and tick commands")
	}
}

func TestApp_Update_EngineEvents(t *testing.T) {
	app := New(testRunInfo())
	now := time.Now()

	events := []EngineEventMsg{
		{
			Event: engine.Event{
				Type:      engine.EventParseStarted,
				Message:   "Parsing document",
				Timestamp: now,
			},
		},
		{
			Event: engine.Event{
				Type:      engine.EventParseCompleted,
				Message:   "Parsed 5 top-level tasks",
				TaskCount: 5,
				Timestamp: now,
			},
			InputTokens:  1200,
			OutputTokens: 800,
			Cost:         0.02,
		},
		{
			Event: engine.Event{
				Type:      engine.EventExpandStarted,
				TaskID:    "1",
				TaskTitle: "Backend",
				Message:   "Expanding task 1",
				Step:      1,
				QueueLen:  5,
				Timestamp: now,
			},
			InputTokens:  2400,
			OutputTokens: 1500,
			Cost:         0.04,
		},
	}

	for _, ev := range events {
		model, _ := app.Update(ev)
		app = model.(*App)
	}

	if app.phase != "Expanding task 1: Backend" {
		t.Errorf("phase = %q, want %q", app.phase, "Expanding task 1: Backend")
	}
	if app.steps != 1 {
		t.Errorf("steps = %d, want 1", app.steps)
	}
	if app.taskCount != 5 {
		t.Errorf("taskCount = %d, want 5", app.taskCount)
	}
	if app.queueLen != 5 {
		t.Errorf("queueLen = %d, want 5", app.queueLen)
	}
	if app.inputTokens != 2400 {
		t.Errorf("inputTokens = %d, want 2400", app.inputTokens)
	}
	if len(app.feed) != 3 {
		t.Errorf("feed length = %d, want 3", len(app.feed))
	}
}

func TestApp_Update_CtrlCDuringRunCancels(t *testing.T) {
	info := testRunInfo()
	cancelled := false
	info.Cancel = func() { cancelled = true }
	app := New(info)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	app = model.(*App)

	if !cancelled {
		t.Error("ctrl+c while running should call Cancel")
	}
	if cmd != nil {
		t.Error("ctrl+c while running should not quit immediately")
	}
	if app.Done() {
		t.Error("app should wait for the run to finish")
	}
	if !strings.Contains(app.viewFooter(), "Stopping") {
		t.Errorf("footer = %q, want stopping notice", app.viewFooter())
	}
}

func TestApp_Update_QIgnoredWhileRunning(t *testing.T) {
	app := New(testRunInfo())

	_, cmd := app.Update(keyMsg("q"))

	if cmd != nil {
		t.Error("q should be ignored while the run is active")
	}
}

func TestApp_Update_RunDone(t *testing.T) {
	app := New(testRunInfo())

	model, _ := app.Update(RunDoneMsg{
		TaskCount:    8,
		Steps:        2,
		InputTokens:  5000,
		OutputTokens: 3000,
		Cost:         0.06,
	})
	app = model.(*App)

	if !app.Done() {
		t.Error("app should be done after RunDoneMsg")
	}
	if app.taskCount != 8 {
		t.Errorf("taskCount = %d, want 8", app.taskCount)
	}
	if app.steps != 2 {
		t.Errorf("steps = %d, want 2", app.steps)
	}

	model, cmd := app.Update(keyMsg("q"))
	app = model.(*App)

	if cmd == nil {
		t.Error("q after done should return a quit command")
	}
	if app.View() != "" {
		t.Error("view should be empty once quitting")
	}
}

func TestApp_View_ShowsRunInfo(t *testing.T) {
	app := New(testRunInfo())
	view := app.View()

	for _, want := range []string{
		"docs/prd.md → tasks.md",
		"claude-sonnet-4-20250514",
		"Steps 0/25",
		"Starting run",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestApp_View_ShowsFailure(t *testing.T) {
	app := New(testRunInfo())

	model, _ := app.Update(RunDoneMsg{Err: errors.New("recursion limit of 25 reached before expansion finished")})
	app = model.(*App)

	view := app.View()
	if !strings.Contains(view, "recursion limit of 25 reached") {
		t.Errorf("view missing failure message:\n%s", view)
	}
}

func TestApp_FeedIsBounded(t *testing.T) {
	app := New(testRunInfo())

	for i := 0; i < maxFeedEntries+10; i++ {
		app.handleEngineEvent(EngineEventMsg{
			Event: engine.Event{
				Type:      engine.EventExpandCompleted,
				Message:   fmt.Sprintf("event %d", i),
				Timestamp: time.Now(),
			},
		})
	}

	if len(app.feed) != maxFeedEntries {
		t.Errorf("feed length = %d, want %d", len(app.feed), maxFeedEntries)
	}
	last := app.feed[len(app.feed)-1]
	if want := fmt.Sprintf("event %d", maxFeedEntries+9); last.text != want {
		t.Errorf("last feed entry = %q, want %q", last.text, want)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{12 * time.Second, "00:12"},
		{90 * time.Second, "01:30"},
		{time.Hour + 5*time.Minute + 3*time.Second, "01:05:03"},
	}

	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		tokens int
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.5k"},
		{2400000, "2.4M"},
	}

	for _, tt := range tests {
		if got := formatTokens(tt.tokens); got != tt.want {
			t.Errorf("formatTokens(%d) = %q, want %q", tt.tokens, got, tt.want)
		}
	}
}
