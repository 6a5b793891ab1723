package rovem

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TaskStatus is the state of one task on the board.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Task is one entry of the task board the model maintains during a run.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
}

// Board tracks the model-declared task list for one run. At most one task
// is in_progress at a time; when an upsert would leave several, all but the
// first in board order are demoted to pending.
type Board struct {
	mu    sync.Mutex
	tasks []Task
	index map[string]int
}

func newBoard() *Board {
	return &Board{index: map[string]int{}}
}

// Upsert merges a batch of tasks into the board and returns the resulting
// snapshot plus the number of newly created tasks. Tasks are matched by ID;
// set fields overwrite, unset fields keep their previous values. Unknown IDs
// append in batch order.
func (b *Board) Upsert(batch []Task) ([]Task, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	created := 0
	for _, t := range batch {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if i, ok := b.index[t.ID]; ok {
			cur := b.tasks[i]
			if t.Title != "" {
				cur.Title = t.Title
			}
			if t.Description != "" {
				cur.Description = t.Description
			}
			if t.Status != "" {
				cur.Status = t.Status
			}
			b.tasks[i] = cur
			continue
		}
		if t.Status == "" {
			t.Status = TaskPending
		}
		b.index[t.ID] = len(b.tasks)
		b.tasks = append(b.tasks, t)
		created++
	}

	seen := false
	for i := range b.tasks {
		if b.tasks[i].Status != TaskInProgress {
			continue
		}
		if seen {
			b.tasks[i].Status = TaskPending
		}
		seen = true
	}

	return b.snapshotLocked(), created
}

// Tasks returns a snapshot of the board.
func (b *Board) Tasks() []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) snapshotLocked() []Task {
	out := make([]Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

const boardToolName = "upsert_tasks"

// boardTool exposes the board to the model. The engine registers it next
// to the user-provided tools on every run.
type boardTool struct {
	board *Board
}

func (t *boardTool) Spec() ToolSpec {
	return ToolSpec{
		Name:        boardToolName,
		Description: "Create or update tasks on your task board. Send the tasks that changed; existing tasks are matched by id. Keep exactly one task in_progress while you work.",
		Parameters: map[string]*Parameter{
			"tasks": {
				Type:        TypeArray,
				Description: "Tasks to create or update.",
				Items: &Parameter{
					Type: TypeObject,
					Properties: map[string]*Parameter{
						"id":          {Type: TypeString, Description: "Task ID. Omit to create a new task."},
						"title":       {Type: TypeString, Description: "Short task title."},
						"description": {Type: TypeString, Description: "Optional detail about the task."},
						"status":      {Type: TypeString, Description: "Task status.", Enum: []string{"pending", "in_progress", "completed", "cancelled"}},
					},
					Required: []string{"title", "status"},
				},
			},
			"request_approval": {
				Type:        TypeBoolean,
				Description: "Set to true to ask the user to review the board before continuing.",
			},
		},
		Required: []string{"tasks"},
	}
}

func (t *boardTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(args["tasks"])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal tasks")
	}

	var batch []Task
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, goerr.Wrap(err, "failed to parse tasks", goerr.V("raw", string(raw)))
	}

	approval, _ := args["request_approval"].(bool)
	snapshot, created := t.board.Upsert(batch)

	return map[string]any{
		"created":           created,
		"count":             len(snapshot),
		"requires_approval": approval,
	}, nil
}
