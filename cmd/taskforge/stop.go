package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskforge/internal/signal"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Signal the active run to stop",
	Long: `Signal a running taskforge expansion to stop.

Writes a stop file under .taskforge/signals that the active run watches.
The run finishes its current step, writes the partial hierarchy to the
output file, and is recorded in history as canceled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		if err := signal.SendStop(cwd); err != nil {
			return fmt.Errorf("send stop signal: %w", err)
		}
		fmt.Println("Stop signal sent. The active run will finish its current step and exit.")
		return nil
	},
}
