package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/ShayCichocki/taskforge/internal/api"
	"github.com/ShayCichocki/taskforge/internal/engine"
)

// runExpandHeadless runs the engine with plain line output.
func runExpandHeadless(ctx context.Context, eng *engine.Engine, sess *engine.Session, settings expandSettings) error {
	go consumeEventsHeadless(eng.Events())

	fmt.Printf("Expanding %s\n", settings.DocumentPath)
	fmt.Printf("  Model: %s\n", settings.Model)
	fmt.Printf("  Max depth: %d\n", settings.MaxDepth)
	fmt.Printf("  Step limit: %d\n", settings.StepLimit)
	fmt.Printf("  Output: %s (%s)\n", settings.OutputPath, settings.Format)
	fmt.Println()

	return eng.Run(ctx, sess)
}

// consumeEventsHeadless prints engine events to stdout.
func consumeEventsHeadless(events <-chan engine.Event) {
	for event := range events {
		switch event.Type {
		case engine.EventRunStarted:
			fmt.Printf("[START] %s\n", event.Message)
		case engine.EventParseStarted:
			fmt.Printf("[PARSE] %s\n", event.Message)
		case engine.EventParseCompleted:
			printStatus("✓", fmt.Sprintf("%s (%d tasks)", event.Message, event.TaskCount), color.FgGreen)
		case engine.EventExpandStarted:
			fmt.Printf("[EXPAND] step %d, task %s: %s\n", event.Step, event.TaskID, event.TaskTitle)
		case engine.EventExpandCompleted:
			printStatus("✓", fmt.Sprintf("%s (%d tasks, %d queued)", event.Message, event.TaskCount, event.QueueLen), color.FgGreen)
		case engine.EventRunFailed:
			printStatus("✗", event.Message, color.FgRed)
		case engine.EventRunCompleted:
			printStatus("✓", event.Message, color.FgGreen)
		}
	}
}

// printRunSummary prints the final outcome of a run.
func printRunSummary(settings expandSettings, sess *engine.Session, tracker *api.TokenTracker, runErr error) {
	fmt.Println()
	switch {
	case runErr == nil:
		printStatus("✓", fmt.Sprintf("Wrote %d tasks to %s", sess.TaskCount(), settings.OutputPath), color.FgGreen)
	case errors.Is(runErr, context.Canceled):
		printStatus("⚠", fmt.Sprintf("Run canceled; partial hierarchy written to %s", settings.OutputPath), color.FgYellow)
	default:
		printStatus("✗", fmt.Sprintf("Run failed: %v", runErr), color.FgRed)
		fmt.Printf("  Partial hierarchy written to %s\n", settings.OutputPath)
	}

	input, output := tracker.Total()
	fmt.Printf("  Steps: %d, tokens: %s in / %s out, est. cost $%.4f\n",
		sess.Steps, formatNumber(int(input)), formatNumber(int(output)), tracker.Cost())
}

// printStatus prints a colored status symbol followed by a message.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
