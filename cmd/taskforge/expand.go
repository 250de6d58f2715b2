package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskforge/internal/api"
	"github.com/ShayCichocki/taskforge/internal/config"
	"github.com/ShayCichocki/taskforge/internal/document"
	"github.com/ShayCichocki/taskforge/internal/engine"
	"github.com/ShayCichocki/taskforge/internal/history"
	"github.com/ShayCichocki/taskforge/internal/prompt"
	"github.com/ShayCichocki/taskforge/internal/render"
	"github.com/ShayCichocki/taskforge/internal/signal"
)

var (
	expandOutput       string
	expandMaxDepth     int
	expandStepLimit    int
	expandTaskCount    int
	expandSubtaskCount int
	expandFormat       string
	expandModel        string
	expandPromptsDir   string
	expandHeadless     bool
	expandBedrock      bool
	expandAWSRegion    string
	expandAWSProfile   string
)

var expandCmd = &cobra.Command{
	Use:   "expand <document>",
	Short: "Expand a document into a task hierarchy",
	Long: `Expand a product document into a task hierarchy.

The document is parsed into roughly five top-level tasks. Tasks are then
expanded into subtasks one level at a time until every task sits at the
depth bound, or until the step cap is reached. The resulting hierarchy is
written to the output file even when the run stops early, so a capped or
canceled run still produces the partial tree.

Depth bound (--max-depth):
  0 parses the document without expanding anything.
  1 (the default) gives every top-level task one level of subtasks.
  Deeper bounds expand each new level in turn: 1 -> 1.1 -> 1.1.1.

Step cap (--step-limit):
  Counts expansion steps only, not the initial parse. A run that hits the
  cap with work remaining fails with a recursion limit error, after
  writing whatever hierarchy exists.

Use --headless for plain line output instead of the live view. Press
ctrl+c (or run 'taskforge stop' from another terminal) to stop a run at
the next step boundary.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().StringVarP(&expandOutput, "output", "o", "", "Output file path (default tasks.<format ext>)")
	expandCmd.Flags().IntVarP(&expandMaxDepth, "max-depth", "d", engine.DefaultMaxDepth, "Maximum subtask depth below top-level tasks")
	expandCmd.Flags().IntVar(&expandStepLimit, "step-limit", engine.DefaultStepLimit, "Maximum number of expansion steps per run")
	expandCmd.Flags().IntVar(&expandTaskCount, "tasks", engine.DefaultTaskCount, "Approximate number of top-level tasks to request")
	expandCmd.Flags().IntVar(&expandSubtaskCount, "subtasks", engine.DefaultSubtaskCount, "Number of subtasks to request per expansion")
	expandCmd.Flags().StringVar(&expandFormat, "format", "", "Output format: markdown, yaml, or json")
	expandCmd.Flags().StringVar(&expandModel, "model", "", "Model to generate with")
	expandCmd.Flags().StringVar(&expandPromptsDir, "prompts-dir", "", "Directory with prompt template overrides")
	expandCmd.Flags().BoolVar(&expandHeadless, "headless", false, "Run without the live view (plain line output)")
	expandCmd.Flags().BoolVar(&expandBedrock, "bedrock", false, "Use AWS Bedrock instead of the direct Anthropic API")
	expandCmd.Flags().StringVar(&expandAWSRegion, "aws-region", "", "AWS region for Bedrock")
	expandCmd.Flags().StringVar(&expandAWSProfile, "aws-profile", "", "AWS profile for Bedrock")
}

func runExpand(cmd *cobra.Command, args []string) (retErr error) {
	// Recover from panics and report them
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in runExpand: %v", r)
		}
	}()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	settings, err := resolveSettings(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	content, err := document.Read(settings.DocumentPath)
	if err != nil {
		return err
	}

	var apiKey string
	if !settings.UseBedrock {
		apiKey, err = config.GetAPIKey(cfg)
		if err != nil {
			return fmt.Errorf("%w\n\nSet the ANTHROPIC_API_KEY environment variable, or run:\n  taskforge config anthropic.api_key <key>", err)
		}
	}

	client, err := api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(settings.Model),
		APIKey:        apiKey,
		UseAWSBedrock: settings.UseBedrock,
		AWSRegion:     settings.AWSRegion,
		AWSProfile:    settings.AWSProfile,
	})
	if err != nil {
		return fmt.Errorf("create API client: %w", err)
	}

	logger := engine.NewRunLogger(cwd)
	defer logger.Close()

	eng, err := engine.New(
		engine.RequiredConfig{Generator: client},
		engine.WithMaxDepth(settings.MaxDepth),
		engine.WithStepLimit(settings.StepLimit),
		engine.WithTaskCount(settings.TaskCount),
		engine.WithSubtaskCount(settings.SubtaskCount),
		engine.WithPrompts(prompt.NewStore(settings.PromptsDir)),
		engine.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	ossignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer ossignal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	// Watch for a stop file written by 'taskforge stop'.
	watcher, err := signal.NewWatcher(cwd)
	if err != nil {
		fmt.Printf("Warning: stop signal watcher unavailable: %v\n", err)
		watcher = nil
	} else {
		watcher.Clear()
		defer watcher.Close()
		go func() {
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if watcher.ShouldStop() {
						cancel()
						return
					}
				}
			}
		}()
	}

	runID := newRunID(time.Now())

	db, rec := openRunHistory(cwd, runID, settings, string(client.Model()))
	if db != nil {
		defer db.Close()
	}

	sess := engine.NewSession(content)

	var runErr error
	if settings.Headless {
		runErr = runExpandHeadless(ctx, eng, sess, settings)
	} else {
		runErr = runExpandTUI(ctx, cancel, eng, sess, settings, runID, client)
	}

	// Write whatever tree exists, even after a failed or canceled run.
	if werr := writeHierarchy(sess, settings); werr != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", werr)
		if runErr == nil {
			runErr = werr
		}
	}

	if db != nil && rec != nil {
		finishRunHistory(db, rec, sess, client.Tracker(), runErr)
	}

	printRunSummary(settings, sess, client.Tracker(), runErr)

	return runErr
}

// writeHierarchy renders the session's tree and writes the output file.
func writeHierarchy(sess *engine.Session, settings expandSettings) error {
	data, err := render.Render(sess.RootTasks, settings.Format)
	if err != nil {
		return err
	}
	return render.WriteFile(settings.OutputPath, data)
}

// openRunHistory opens the project history database and records the run as
// started. History is optional: failures degrade to warnings.
func openRunHistory(projectRoot, runID string, settings expandSettings, model string) (*history.DB, *history.Run) {
	db, err := history.OpenProject(projectRoot)
	if err != nil {
		fmt.Printf("Warning: run history unavailable: %v\n", err)
		return nil, nil
	}
	if err := db.Migrate(); err != nil {
		fmt.Printf("Warning: run history unavailable: %v\n", err)
		db.Close()
		return nil, nil
	}

	rec := &history.Run{
		ID:           runID,
		DocumentPath: settings.DocumentPath,
		OutputPath:   settings.OutputPath,
		Format:       string(settings.Format),
		Model:        model,
		MaxDepth:     settings.MaxDepth,
		StepLimit:    settings.StepLimit,
		StartedAt:    time.Now().UTC(),
	}
	if err := db.CreateRun(rec); err != nil {
		fmt.Printf("Warning: record run start: %v\n", err)
		db.Close()
		return nil, nil
	}
	return db, rec
}

// finishRunHistory records the run's terminal status and counters.
func finishRunHistory(db *history.DB, rec *history.Run, sess *engine.Session, tracker *api.TokenTracker, runErr error) {
	rec.Status = statusForRunError(runErr)
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	rec.TaskCount = sess.TaskCount()
	rec.Steps = sess.Steps

	input, output := tracker.Total()
	rec.InputTokens = int(input)
	rec.OutputTokens = int(output)

	if err := db.FinishRun(rec); err != nil {
		fmt.Printf("Warning: record run result: %v\n", err)
	}
}
