package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/weihan/ordertask-api/internal/domain"
	"github.com/weihan/ordertask-api/internal/notify"
	"github.com/weihan/ordertask-api/internal/store"
)

// Executor runs tasks on detached background goroutines and owns the
// terminal half of the task lifecycle: status transition to SUCCESS or
// FAILED, output persistence, exactly one terminal callback, and
// removal from the store. Handlers own everything in between.
// Version: 1.0
type Executor struct {
	registry *Registry
	store    store.TaskStore
	notifier notify.Notifier
	deps     HandlerDeps
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewExecutor creates an executor wired to the given collaborators.
// deps is handed to handler factories verbatim, with the store,
// notifier, and logger filled in when the factory left them nil.
func NewExecutor(registry *Registry, taskStore store.TaskStore, notifier notify.Notifier, deps HandlerDeps, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Store == nil {
		deps.Store = taskStore
	}
	if deps.Notifier == nil {
		deps.Notifier = notifier
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &Executor{
		registry: registry,
		store:    taskStore,
		notifier: notifier,
		deps:     deps,
		logger:   logger,
	}
}

// Supports reports whether the executor can run tasks of the given type.
func (e *Executor) Supports(taskType domain.TaskType) bool {
	return e.registry.Supports(taskType)
}

// Dispatch schedules a task for background execution and returns
// immediately. The goroutine runs under a fresh context so execution
// outlives the HTTP request that created the task.
func (e *Executor) Dispatch(taskID string, taskType domain.TaskType, input map[string]any) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(context.Background(), taskID, taskType, input)
	}()
}

// Wait blocks until every dispatched task has finished. Used during
// graceful shutdown and by tests that need deterministic completion.
func (e *Executor) Wait() {
	e.wg.Wait()
}

func (e *Executor) run(ctx context.Context, taskID string, taskType domain.TaskType, input map[string]any) {
	log := e.logger.With(
		slog.String("task_id", taskID),
		slog.String("task_type", fmt.Sprintf("%d", taskType)),
	)
	log.Info("task execution started")

	e.store.UpdateStatus(ctx, taskID, domain.TaskStatusRunning)

	output, err := e.invokeHandler(ctx, taskID, taskType, input)
	if err == nil {
		e.store.UpdateStatus(ctx, taskID, domain.TaskStatusSuccess)
		e.store.UpdateOutput(ctx, taskID, output)
		log.Info("task execution succeeded")
		e.finalize(ctx, taskID, domain.TaskStatusSuccess, output, log)
		return
	}

	e.store.UpdateStatus(ctx, taskID, domain.TaskStatusFailed)
	var failure map[string]any
	if appErr, ok := domain.AsError(err); ok {
		failure = map[string]any{
			"error": appErr.Message,
			"code":  appErr.Code,
		}
		log.Error("task execution failed",
			slog.Int("error_code", appErr.Code),
			slog.String("error", appErr.Message))
		e.store.UpdateOutput(ctx, taskID, failure)
	} else {
		failure = map[string]any{"error": err.Error()}
		log.Error("task execution failed", slog.String("error", err.Error()))
		e.store.UpdateError(ctx, taskID, err.Error())
	}
	e.finalize(ctx, taskID, domain.TaskStatusFailed, failure, log)
}

// invokeHandler builds and runs the handler for the task, converting
// panics into errors so a misbehaving handler cannot take the process
// down or leave the task stuck in RUNNING.
func (e *Executor) invokeHandler(ctx context.Context, taskID string, taskType domain.TaskType, input map[string]any) (output map[string]any, err error) {
	factory, ok := e.registry.Lookup(taskType)
	if !ok {
		return nil, domain.NewErrorf(domain.CodeTaskTypeNotSupported,
			"no handler registered for task type %d", taskType)
	}

	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = fmt.Errorf("task handler panicked: %v", r)
		}
	}()

	progress := NewProgress(taskID, e.store, e.notifier, e.deps.Logger)
	handler := factory(taskID, input, progress, e.deps)
	return handler.Execute(ctx)
}

// finalize sends the single terminal callback and removes the task from
// the store. The progress text is read before deletion so the callback
// carries the last reported state.
func (e *Executor) finalize(ctx context.Context, taskID string, status domain.TaskStatus, output map[string]any, log *slog.Logger) {
	progress := ""
	if snapshot, err := e.store.Get(ctx, taskID); err == nil {
		progress = snapshot.Progress
	}
	e.notifier.Notify(ctx, taskID, status, output, progress)
	e.store.Delete(ctx, taskID)
	log.Info("task finalized", slog.String("status", status.String()))
}
