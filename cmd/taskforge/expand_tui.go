package main

import (
	"context"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/taskforge/internal/api"
	"github.com/ShayCichocki/taskforge/internal/engine"
	"github.com/ShayCichocki/taskforge/internal/tui"
)

// runExpandTUI runs the engine behind the live terminal view.
func runExpandTUI(ctx context.Context, cancel context.CancelFunc, eng *engine.Engine, sess *engine.Session, settings expandSettings, runID string, client *api.Client) (retErr error) {
	// Suppress log output while the TUI is active (it corrupts the display)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in runExpandTUI: %v", r)
		}
	}()

	program, _ := tui.NewProgram(tui.RunInfo{
		RunID:        runID,
		DocumentPath: settings.DocumentPath,
		OutputPath:   settings.OutputPath,
		Model:        settings.Model,
		MaxDepth:     settings.MaxDepth,
		StepLimit:    settings.StepLimit,
		Cancel:       cancel,
	})
	if program == nil {
		return fmt.Errorf("failed to create TUI program (nil)")
	}

	// Forward engine events to the TUI with token snapshots.
	go forwardEventsToTUI(program, eng.Events(), client.Tracker())

	// Run the engine in the background.
	engineDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				engineDone <- fmt.Errorf("PANIC in engine: %v", r)
			}
		}()
		engineDone <- eng.Run(ctx, sess)
	}()

	tuiDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				tuiDone <- fmt.Errorf("PANIC in TUI: %v", r)
			}
		}()
		_, err := program.Run()
		tuiDone <- err
	}()

	select {
	case err := <-engineDone:
		// Engine finished. Show the result and wait for the user to quit.
		input, output := client.Tracker().Total()
		program.Send(tui.RunDoneMsg{
			Err:          err,
			TaskCount:    sess.TaskCount(),
			Steps:        sess.Steps,
			InputTokens:  int(input),
			OutputTokens: int(output),
			Cost:         client.Tracker().Cost(),
		})
		<-tuiDone
		return err

	case err := <-tuiDone:
		// TUI exited first. Stop the engine and wait for it to wind down
		// so the session's tree is final before rendering.
		cancel()
		runErr := <-engineDone
		if err != nil {
			return err
		}
		return runErr
	}
}

// forwardEventsToTUI converts engine events to TUI messages.
func forwardEventsToTUI(program *tea.Program, events <-chan engine.Event, tracker *api.TokenTracker) {
	for event := range events {
		input, output := tracker.Total()
		program.Send(tui.EngineEventMsg{
			Event:        event,
			InputTokens:  int(input),
			OutputTokens: int(output),
			Cost:         tracker.Cost(),
		})
	}
}
