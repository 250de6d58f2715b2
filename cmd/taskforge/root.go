package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskforge",
	Short: "Document to task hierarchy generator",
	Long: `Taskforge turns a product document into a structured task hierarchy.

A run parses the document into roughly five top-level tasks, then expands
tasks into subtasks level by level until a depth bound is reached. Every
run is also capped by a step budget, so it terminates even when the
generator keeps producing expandable work.

Core capabilities:
- Parses PRDs, specs, and briefs into discrete tasks
- Expands tasks into numbered subtasks (1, 1.1, 1.1.1, ...)
- Bounds work by subtask depth and by a step cap
- Renders markdown, YAML, or JSON hierarchies
- Records every run in a local history database`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(versionCmd)
}
