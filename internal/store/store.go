// Package store defines the task persistence contract and its in-memory
// implementation. All task state lives in process memory; nothing
// survives a restart.
package store

import (
	"context"
	"errors"

	"github.com/weihan/ordertask-api/internal/domain"
)

// Common store errors.
var (
	// ErrTaskExists is returned when creating a task whose ID is already live.
	ErrTaskExists = errors.New("task ID already exists")

	// ErrTaskNotFound is returned when a requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")
)

// TaskStore defines the interface for task state management.
//
// Create is atomic check-then-insert. The Update* methods and Delete are
// deliberately forgiving: a task may be deleted by the executor at any
// moment, so updates against an absent task are silent no-ops rather
// than errors. Every successful mutation bumps the task's UpdatedAt.
// Version: 1.0
type TaskStore interface {
	// Create inserts a new pending task.
	// Returns ErrTaskExists if the ID is already live, or a domain
	// validation error if the task data is invalid.
	Create(ctx context.Context, id string, taskType domain.TaskType, input map[string]any) (domain.Task, error)

	// Get retrieves a snapshot of a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Get(ctx context.Context, id string) (domain.Task, error)

	// List returns snapshots of all live tasks in insertion order.
	// A non-nil status filters the result.
	List(ctx context.Context, status *domain.TaskStatus) ([]domain.Task, error)

	// UpdateStatus sets the task's status. Transitions out of a terminal
	// status are refused and logged. No-op if the task is absent.
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus)

	// UpdateOutput sets the task's output document. No-op if absent.
	UpdateOutput(ctx context.Context, id string, output map[string]any)

	// UpdateProgress sets the task's free-text progress. No-op if absent.
	UpdateProgress(ctx context.Context, id string, progress string)

	// UpdateError records a failure message as the task's output
	// document, shaped {"error": message}. No-op if absent.
	UpdateError(ctx context.Context, id string, message string)

	// Delete removes the task. Idempotent.
	Delete(ctx context.Context, id string)
}
