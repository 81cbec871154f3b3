package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/weihan/ordertask-api/internal/domain"
)

// Input document limits enforced at creation time. Oversized or overly
// nested inputs are rejected synchronously so they never reach a
// handler.
const (
	// MaxInputBytes caps the serialized size of the input document.
	MaxInputBytes = 1 << 20 // 1MB

	// MaxInputDepth caps the nesting depth of the input document.
	MaxInputDepth = 10
)

// CreateTaskRequest is the body of POST /api/tasks. The caller supplies
// the task ID so its own systems can correlate the eventual callback.
type CreateTaskRequest struct {
	TaskID   string         `json:"taskId"   validate:"required,min=1,max=255"`
	TaskType int            `json:"taskType" validate:"required"`
	Input    map[string]any `json:"input"    validate:"required"`
}

// TaskResponse is the task snapshot returned by GET endpoints.
type TaskResponse struct {
	TaskID    string         `json:"taskId"`
	TaskType  int            `json:"taskType"`
	Status    int            `json:"status"`
	Progress  string         `json:"progress,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	Output    map[string]any `json:"output,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TaskListResponse is the body of GET /api/tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// CreateTaskResponse is the body of a successful POST /api/tasks.
type CreateTaskResponse struct {
	TaskID string `json:"taskId"`
}

// taskToResponse converts a domain snapshot to its DTO.
func taskToResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:    task.ID,
		TaskType:  int(task.Type),
		Status:    int(task.Status),
		Progress:  task.Progress,
		Input:     task.Input,
		Output:    task.Output,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// ValidateInputDocument enforces the size and depth limits on a task's
// input document.
func ValidateInputDocument(input map[string]any) error {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("input is not serializable: %w", err)
	}
	if len(data) > MaxInputBytes {
		return fmt.Errorf("input exceeds %d bytes", MaxInputBytes)
	}
	if depth := documentDepth(input); depth > MaxInputDepth {
		return fmt.Errorf("input nesting exceeds depth %d", MaxInputDepth)
	}
	return nil
}

// documentDepth returns the nesting depth of a decoded JSON value.
// Scalars have depth 0; each enclosing object or array adds one.
func documentDepth(v any) int {
	switch val := v.(type) {
	case map[string]any:
		deepest := 0
		for _, child := range val {
			if d := documentDepth(child); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	case []any:
		deepest := 0
		for _, child := range val {
			if d := documentDepth(child); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	default:
		return 0
	}
}
