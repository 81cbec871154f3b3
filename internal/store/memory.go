package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/weihan/ordertask-api/internal/domain"
)

// Compile-time check that MemoryTaskStore implements TaskStore.
var _ TaskStore = (*MemoryTaskStore)(nil)

// MemoryTaskStore holds all live tasks in a map guarded by one mutex.
// The coarse lock is acceptable: every operation is a short map access,
// and the expensive work (model calls, callback delivery) happens
// outside the store entirely.
type MemoryTaskStore struct {
	mu     sync.Mutex
	tasks  map[string]*domain.Task
	order  []string // insertion order for List
	logger *slog.Logger
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore(logger *slog.Logger) *MemoryTaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryTaskStore{
		tasks:  make(map[string]*domain.Task),
		logger: logger.With("component", "task_store"),
	}
}

// Create inserts a new pending task. The existence check and the insert
// run under the same lock acquisition, so concurrent callers can never
// both create the same ID.
func (s *MemoryTaskStore) Create(
	_ context.Context,
	id string,
	taskType domain.TaskType,
	input map[string]any,
) (domain.Task, error) {
	task, err := domain.NewTask(id, taskType, input)
	if err != nil {
		return domain.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; exists {
		s.logger.Warn("task ID already exists", "task_id", id)
		return domain.Task{}, ErrTaskExists
	}

	s.tasks[id] = task
	s.order = append(s.order, id)

	s.logger.Info("task created", "task_id", id, "task_type", int(taskType))
	return task.Snapshot(), nil
}

// Get retrieves a snapshot of a task by ID.
func (s *MemoryTaskStore) Get(_ context.Context, id string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, ErrTaskNotFound
	}
	return task.Snapshot(), nil
}

// List returns snapshots of all live tasks in insertion order,
// optionally filtered by status.
func (s *MemoryTaskStore) List(_ context.Context, status *domain.TaskStatus) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		task, ok := s.tasks[id]
		if !ok {
			continue
		}
		if status != nil && task.Status != *status {
			continue
		}
		snapshots = append(snapshots, task.Snapshot())
	}
	return snapshots, nil
}

// UpdateStatus sets the task's status, refusing transitions out of a
// terminal state. No-op if the task is absent.
func (s *MemoryTaskStore) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return
	}

	if !task.CanTransitionTo(status) {
		s.logger.Warn("refusing status transition",
			"task_id", id,
			"from", task.Status.String(),
			"to", status.String())
		return
	}

	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	s.logger.Info("task status updated", "task_id", id, "status", status.String())
}

// UpdateOutput sets the task's output document. No-op if absent.
func (s *MemoryTaskStore) UpdateOutput(_ context.Context, id string, output map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return
	}

	task.Output = output
	task.UpdatedAt = time.Now().UTC()
	s.logger.Info("task output updated", "task_id", id)
}

// UpdateProgress sets the task's progress text. No-op if absent.
func (s *MemoryTaskStore) UpdateProgress(_ context.Context, id string, progress string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return
	}

	task.Progress = progress
	task.UpdatedAt = time.Now().UTC()
	s.logger.Debug("task progress updated", "task_id", id, "progress", progress)
}

// UpdateError records a failure message as the task's output document.
// No-op if absent.
func (s *MemoryTaskStore) UpdateError(_ context.Context, id string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return
	}

	task.Output = map[string]any{"error": message}
	task.UpdatedAt = time.Now().UTC()
	s.logger.Warn("task error recorded", "task_id", id, "error", message)
}

// Delete removes the task. Idempotent; the freed ID may be reused by a
// subsequent Create.
func (s *MemoryTaskStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return
	}

	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Info("task deleted", "task_id", id)
}
