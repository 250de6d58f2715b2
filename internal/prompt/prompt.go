// Package prompt builds the system and user prompts for document parsing and
// task expansion. Built-in templates can be overridden per project by
// dropping files into a prompt directory.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ShayCichocki/taskforge/pkg/models"
)

const (
	// ParseTemplateFile overrides the system prompt for document parsing.
	ParseTemplateFile = "core_prd_parsing_prompt.md"
	// ExpandTemplateFile overrides the system prompt for task expansion.
	ExpandTemplateFile = "task_expansion_prompts.md"
)

// Placeholder tokens replaced in system prompt templates.
const (
	numTasksToken    = "[numTasks]"
	numSubtasksToken = "[numSubtasks]"
)

// parseSystemPrompt is the built-in system prompt for document parsing.
const parseSystemPrompt = `You are an AI assistant specialized in analyzing Product Requirements Documents (PRDs) and generating a structured, logically ordered, dependency-aware and sequenced list of development tasks in JSON format.
Analyze the provided PRD content and generate approximately [numTasks] top-level development tasks.
Respond ONLY with a valid JSON object containing a single key "tasks", where the value is an array of task objects.`

// expandSystemPrompt is the built-in system prompt for task expansion.
const expandSystemPrompt = `You are an AI assistant helping with task breakdown. You need to break down a high-level task into [numSubtasks] specific subtasks. Respond ONLY with a valid JSON object containing a single key "subtasks" whose value is an array.`

// Store resolves prompt templates from a directory, falling back to the
// built-in templates when a file is missing. The zero value uses only the
// built-ins.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. An empty dir disables file
// overrides entirely.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load returns the contents of the named template file, or "" when the store
// has no directory or the file is missing or unreadable. A missing template
// is never an error; callers fall back to their built-in prompts.
func (s *Store) Load(name string) string {
	if s == nil || s.dir == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}

// Parse returns the system and user prompts for breaking a document into
// approximately numTasks top-level tasks.
func (s *Store) Parse(document string, numTasks int) (system, user string) {
	system = s.Load(ParseTemplateFile)
	if strings.TrimSpace(system) == "" {
		system = parseSystemPrompt
	}
	system = strings.ReplaceAll(system, numTasksToken, strconv.Itoa(numTasks))

	user = fmt.Sprintf("Here is the Product Requirements Document (PRD) to break down:\n\n%s\n\nPlease generate approximately %d top-level tasks. Ensure IDs are strings.", document, numTasks)
	return system, user
}

// Expand returns the system and user prompts for breaking parent into
// exactly numSubtasks subtasks. nextIndex is the 1-based sibling index the
// first new subtask will take, so the model numbers ids consistently with
// what the expander assigns.
func (s *Store) Expand(parent *models.Task, numSubtasks, nextIndex int) (system, user string) {
	system = s.Load(ExpandTemplateFile)
	if strings.TrimSpace(system) == "" {
		system = expandSystemPrompt
	}
	system = strings.ReplaceAll(system, numSubtasksToken, strconv.Itoa(numSubtasks))

	details := parent.Details
	if details == "" {
		details = "None"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Break down this parent task into exactly %d specific subtasks:\n\n", numSubtasks)
	fmt.Fprintf(&b, "Parent Task ID: %s\n", parent.ID)
	fmt.Fprintf(&b, "Parent Title: %s\n", parent.Title)
	fmt.Fprintf(&b, "Parent Description: %s\n", parent.Description)
	fmt.Fprintf(&b, "Parent Current details: %s\n\n", details)
	fmt.Fprintf(&b, "Assign sequential subtask IDs starting from numerically %d (e.g., if parent is '%s', first subtask is '%s'). ", nextIndex, parent.ID, models.ChildID(parent.ID, nextIndex))
	b.WriteString(`Return ONLY the JSON object containing the "subtasks" array.`)

	return system, b.String()
}
