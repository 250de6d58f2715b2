package models

import (
	"reflect"
	"testing"
)

func TestPriority_Valid(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		want     bool
	}{
		{"low is valid", PriorityLow, true},
		{"medium is valid", PriorityMedium, true},
		{"high is valid", PriorityHigh, true},
		{"empty string is invalid", Priority(""), false},
		{"unknown priority is invalid", Priority("urgent"), false},
		{"uppercase is invalid", Priority("HIGH"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.priority.Valid(); got != tt.want {
				t.Errorf("Priority(%q).Valid() = %v, want %v", tt.priority, got, tt.want)
			}
		})
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Priority
	}{
		{"low passes through", "low", PriorityLow},
		{"high passes through", "high", PriorityHigh},
		{"uppercase is lowered", "HIGH", PriorityHigh},
		{"surrounding whitespace is trimmed", "  medium ", PriorityMedium},
		{"empty falls back to medium", "", PriorityMedium},
		{"unknown falls back to medium", "urgent", PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePriority(tt.input); got != tt.want {
				t.Errorf("NormalizePriority(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTaskStatus_Valid(t *testing.T) {
	tests := []struct {
		name   string
		status TaskStatus
		want   bool
	}{
		{"pending is valid", TaskStatusPending, true},
		{"in_progress is valid", TaskStatusInProgress, true},
		{"blocked is valid", TaskStatusBlocked, true},
		{"done is valid", TaskStatusDone, true},
		{"failed is valid", TaskStatusFailed, true},
		{"empty string is invalid", TaskStatus(""), false},
		{"unknown status is invalid", TaskStatus("unknown"), false},
		{"typo status is invalid", TaskStatus("pendingg"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("TaskStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TaskStatus
	}{
		{"pending passes through", "pending", TaskStatusPending},
		{"done passes through", "done", TaskStatusDone},
		{"uppercase is lowered", "DONE", TaskStatusDone},
		{"empty falls back to pending", "", TaskStatusPending},
		{"unknown falls back to pending", "todo", TaskStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeStatus(tt.input); got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"", 0},
		{"1", 0},
		{"12", 0},
		{"3.1", 1},
		{"3.1.2", 2},
		{"10.4.2.7", 3},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Depth(tt.id); got != tt.want {
				t.Errorf("Depth(%q) = %d, want %d", tt.id, got, tt.want)
			}
		})
	}
}

func TestTask_Depth(t *testing.T) {
	task := &Task{ID: "2.3.1"}
	if got := task.Depth(); got != 2 {
		t.Errorf("Task{ID: %q}.Depth() = %d, want 2", task.ID, got)
	}
}

func TestChildID(t *testing.T) {
	tests := []struct {
		parent string
		n      int
		want   string
	}{
		{"1", 1, "1.1"},
		{"1", 4, "1.4"},
		{"2.3", 1, "2.3.1"},
		{"10.4.2", 11, "10.4.2.11"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ChildID(tt.parent, tt.n); got != tt.want {
				t.Errorf("ChildID(%q, %d) = %q, want %q", tt.parent, tt.n, got, tt.want)
			}
		})
	}
}

func TestTask_Normalize(t *testing.T) {
	task := &Task{
		ID: "1",
		Subtasks: []*Task{
			{ID: "1.1", Title: "Keep me", Priority: "HIGH", Status: "done"},
		},
	}

	task.Normalize()

	if task.Title != DefaultTaskTitle {
		t.Errorf("Title = %q, want %q", task.Title, DefaultTaskTitle)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("Priority = %q, want %q", task.Priority, PriorityMedium)
	}
	if task.Status != TaskStatusPending {
		t.Errorf("Status = %q, want %q", task.Status, TaskStatusPending)
	}
	if task.Dependencies == nil {
		t.Error("Dependencies should be non-nil after Normalize")
	}
	if task.Subtasks == nil {
		t.Error("Subtasks should be non-nil after Normalize")
	}

	sub := task.Subtasks[0]
	if sub.Title != "Keep me" {
		t.Errorf("subtask Title = %q, want %q", sub.Title, "Keep me")
	}
	if sub.Priority != PriorityHigh {
		t.Errorf("subtask Priority = %q, want %q", sub.Priority, PriorityHigh)
	}
	if sub.Status != TaskStatusDone {
		t.Errorf("subtask Status = %q, want %q", sub.Status, TaskStatusDone)
	}
	if sub.Subtasks == nil {
		t.Error("subtask Subtasks should be non-nil after Normalize")
	}
}

func TestTask_Normalize_PreservesSetFields(t *testing.T) {
	task := &Task{
		ID:           "2",
		Title:        "Build the API",
		Priority:     PriorityHigh,
		Status:       TaskStatusInProgress,
		Dependencies: []string{"1"},
		Subtasks:     []*Task{},
	}

	task.Normalize()

	if task.Title != "Build the API" {
		t.Errorf("Title = %q, want %q", task.Title, "Build the API")
	}
	if task.Priority != PriorityHigh {
		t.Errorf("Priority = %q, want %q", task.Priority, PriorityHigh)
	}
	if task.Status != TaskStatusInProgress {
		t.Errorf("Status = %q, want %q", task.Status, TaskStatusInProgress)
	}
	if !reflect.DeepEqual(task.Dependencies, []string{"1"}) {
		t.Errorf("Dependencies = %v, want %v", task.Dependencies, []string{"1"})
	}
}

func testForest() []*Task {
	return []*Task{
		{
			ID: "1",
			Subtasks: []*Task{
				{ID: "1.1", Subtasks: []*Task{{ID: "1.1.1"}}},
				{ID: "1.2"},
			},
		},
		{ID: "2"},
		{ID: "3", Subtasks: []*Task{{ID: "3.1"}}},
	}
}

func TestFindByID(t *testing.T) {
	forest := testForest()

	tests := []struct {
		name string
		id   string
		want string
	}{
		{"finds a root", "2", "2"},
		{"finds a nested subtask", "1.1.1", "1.1.1"},
		{"finds a mid-level task", "3.1", "3.1"},
		{"misses an absent id", "4", ""},
		{"misses a partial id", "1.3", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindByID(forest, tt.id)
			if tt.want == "" {
				if got != nil {
					t.Errorf("FindByID(%q) = %v, want nil", tt.id, got.ID)
				}
				return
			}
			if got == nil {
				t.Fatalf("FindByID(%q) = nil, want task %q", tt.id, tt.want)
			}
			if got.ID != tt.want {
				t.Errorf("FindByID(%q).ID = %q, want %q", tt.id, got.ID, tt.want)
			}
		})
	}
}

func TestFindByID_EmptyForest(t *testing.T) {
	if got := FindByID(nil, "1"); got != nil {
		t.Errorf("FindByID(nil, %q) = %v, want nil", "1", got.ID)
	}
}

func TestWalk_TreeOrder(t *testing.T) {
	var order []string
	Walk(testForest(), func(task *Task) {
		order = append(order, task.ID)
	})

	want := []string{"1", "1.1", "1.1.1", "1.2", "2", "3", "3.1"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Walk order = %v, want %v", order, want)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name   string
		forest []*Task
		want   int
	}{
		{"empty forest", nil, 0},
		{"single task", []*Task{{ID: "1"}}, 1},
		{"nested forest", testForest(), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.forest); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}
