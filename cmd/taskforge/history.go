package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskforge/internal/history"
)

var (
	historyLimit      int
	historyPurgeOlder time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent expansion runs",
	Long: `Display recent taskforge runs for this project.

Shows each run's status, document, output file, step usage, task count,
and token usage. Runs are recorded in .taskforge/history.db; when the
project has no database the global one at ~/.local/share/taskforge is
used instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to show")
	historyCmd.Flags().DurationVar(&historyPurgeOlder, "purge-older-than", 0, "Delete finished runs older than this duration (e.g. 720h)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Try the project database first, then the global one.
	dbPath := history.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = history.GlobalDBPath()
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet. Run 'taskforge expand <document>' to start.")
		return nil
	}

	db, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate history database: %w", err)
	}

	if historyPurgeOlder > 0 {
		purged, err := db.PurgeOldRuns(historyPurgeOlder)
		if err != nil {
			return fmt.Errorf("purge old runs: %w", err)
		}
		fmt.Printf("Purged %d runs older than %s.\n\n", purged, historyPurgeOlder)
	}

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Run 'taskforge expand <document>' to start.")
		return nil
	}

	fmt.Println("Recent Runs:")
	for _, r := range runs {
		displayRun(r)
	}
	return nil
}

// displayRun prints a two-line summary of one run.
func displayRun(r history.Run) {
	symbol, attr := statusGlyph(r.Status)
	age := formatDuration(time.Since(r.StartedAt))

	c := color.New(attr)
	fmt.Printf("  %s %s  %s (%s ago)\n", c.Sprint(symbol), r.ID, r.Status, age)
	fmt.Printf("     %s → %s  %s  depth %d  steps %d/%d  tasks %d  tokens %s\n",
		r.DocumentPath, r.OutputPath, r.Format,
		r.MaxDepth, r.Steps, r.StepLimit, r.TaskCount,
		formatNumber(r.InputTokens+r.OutputTokens))
	if r.Error != "" {
		fmt.Printf("     %s\n", c.Sprint(r.Error))
	}
}

// statusGlyph maps a run status to its display symbol and color.
func statusGlyph(status history.RunStatus) (string, color.Attribute) {
	switch status {
	case history.RunCompleted:
		return "✓", color.FgGreen
	case history.RunFailed:
		return "✗", color.FgRed
	case history.RunCanceled:
		return "⚠", color.FgYellow
	default:
		return "●", color.FgCyan
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}

// formatNumber formats a number with commas.
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	// Add commas every 3 digits from the right
	var result strings.Builder
	offset := len(s) % 3
	if offset > 0 {
		result.WriteString(s[:offset])
		if len(s) > offset {
			result.WriteString(",")
		}
	}
	for i := offset; i < len(s); i += 3 {
		result.WriteString(s[i : i+3])
		if i+3 < len(s) {
			result.WriteString(",")
		}
	}
	return result.String()
}
