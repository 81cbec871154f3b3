// Package task contains the asynchronous execution engine. Tasks are
// dispatched onto background goroutines, driven through their status
// lifecycle, and reported to the upstream callback endpoint exactly once
// on reaching a terminal state.
package task

import (
	"context"
	"log/slog"

	"github.com/weihan/ordertask-api/internal/domain"
	"github.com/weihan/ordertask-api/internal/generation"
	"github.com/weihan/ordertask-api/internal/notify"
	"github.com/weihan/ordertask-api/internal/store"
)

// Handler executes the work for a single task. Implementations receive
// everything they need at construction time through their factory and
// return the task output on success. Returning a *domain.Error marks the
// failure as classified; any other error is reported with a generic
// failure message.
type Handler interface {
	// Execute runs the task to completion. The context carries the
	// executor's cancellation signal; long-running handlers should
	// check it between units of work.
	Execute(ctx context.Context) (map[string]any, error)
}

// HandlerDeps bundles the shared collaborators a handler may need.
// Factories pick what they use and ignore the rest.
type HandlerDeps struct {
	Store     store.TaskStore
	Notifier  notify.Notifier
	Generator generation.Generator
	Logger    *slog.Logger
}

// HandlerFactory builds a Handler for one concrete task. The progress
// reporter is already bound to the task's ID and may be used to publish
// intermediate status text while the handler runs.
type HandlerFactory func(taskID string, input map[string]any, progress *Progress, deps HandlerDeps) Handler

// Registry maps task types to the factories that know how to execute
// them. Registration happens once during startup; lookups are
// read-only afterwards, so no locking is required.
type Registry struct {
	factories map[domain.TaskType]HandlerFactory
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[domain.TaskType]HandlerFactory)}
}

// Register associates a factory with a task type, replacing any
// previous registration for that type.
func (r *Registry) Register(taskType domain.TaskType, factory HandlerFactory) {
	r.factories[taskType] = factory
}

// Lookup returns the factory registered for the given type.
func (r *Registry) Lookup(taskType domain.TaskType) (HandlerFactory, bool) {
	f, ok := r.factories[taskType]
	return f, ok
}

// Supports reports whether a factory is registered for the given type.
// The API layer uses this to reject creation of tasks nobody can run.
func (r *Registry) Supports(taskType domain.TaskType) bool {
	_, ok := r.factories[taskType]
	return ok
}
