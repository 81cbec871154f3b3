package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
// The numeric values are part of the external contract: they appear
// verbatim in API responses and callback payloads.
type TaskStatus int

// Possible task status values. A task starts as pending, moves to
// running when the executor picks it up, and ends in exactly one of
// the terminal states.
const (
	TaskStatusPending TaskStatus = 1
	TaskStatusRunning TaskStatus = 2
	TaskStatusSuccess TaskStatus = 3
	TaskStatusFailed  TaskStatus = 4
)

// String returns a human-readable name for the status.
func (s TaskStatus) String() string {
	switch s {
	case TaskStatusPending:
		return "pending"
	case TaskStatusRunning:
		return "running"
	case TaskStatusSuccess:
		return "success"
	case TaskStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsValid reports whether the status is one of the defined values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusSuccess, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusFailed
}

// TaskType identifies which handler implementation processes a task.
// Values are part of the external API contract.
type TaskType int

// Known task types. Only text extraction is implemented today; the
// image and voice variants are reserved in the contract so callers can
// probe them without the values being reassigned later.
const (
	TaskTypeTextExtraction  TaskType = 1
	TaskTypeImageExtraction TaskType = 2
	TaskTypeVoiceExtraction TaskType = 3
)

// IsValid reports whether the task type is one of the declared values.
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeTextExtraction, TaskTypeImageExtraction, TaskTypeVoiceExtraction:
		return true
	default:
		return false
	}
}

// Common validation errors for Task
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrInvalidTaskType  = errors.New("invalid task type")
	ErrEmptyTaskInput   = errors.New("task input cannot be empty")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrTerminalStatus   = errors.New("task already in a terminal status")
	ErrStatusTransition = errors.New("invalid task status transition")
)

// Task represents one unit of asynchronous work tracked by a
// caller-supplied ID. The store exclusively owns live Task values;
// everything outside the store works with snapshots or IDs.
type Task struct {
	ID        string         `json:"taskId"`
	Type      TaskType       `json:"taskType"`
	Status    TaskStatus     `json:"status"`
	Progress  string         `json:"progress,omitempty"`
	Input     map[string]any `json:"input"`
	Output    map[string]any `json:"output,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewTask creates a pending Task with the given ID, type and input.
// Returns an error if validation fails.
func NewTask(id string, taskType TaskType, input map[string]any) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        id,
		Type:      taskType,
		Status:    TaskStatusPending,
		Input:     input,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrEmptyTaskID
	}

	if !t.Type.IsValid() {
		return ErrInvalidTaskType
	}

	if len(t.Input) == 0 {
		return ErrEmptyTaskInput
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// CanTransitionTo reports whether moving from the current status to the
// given status respects the pending -> running -> terminal ordering.
// Terminal states permit no outgoing transitions.
func (t *Task) CanTransitionTo(status TaskStatus) bool {
	if !status.IsValid() {
		return false
	}
	if t.Status.IsTerminal() {
		return false
	}
	return status > t.Status
}

// Snapshot returns a copy of the task safe to hand outside the store.
// The input and output documents are shallow-copied at the top level;
// callers treat them as read-only.
func (t *Task) Snapshot() Task {
	copied := *t
	copied.Input = copyDocument(t.Input)
	copied.Output = copyDocument(t.Output)
	return copied
}

func copyDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
