package task

import (
	"context"
	"log/slog"

	"github.com/weihan/ordertask-api/internal/domain"
	"github.com/weihan/ordertask-api/internal/notify"
	"github.com/weihan/ordertask-api/internal/store"
)

// Progress publishes intermediate task state while a handler runs. It
// writes the progress text to the store and, unless suppressed, sends a
// non-terminal callback so the upstream service can surface live
// status. Terminal transitions are never reported through Progress;
// those belong to the executor so the exactly-once guarantee holds.
type Progress struct {
	taskID   string
	store    store.TaskStore
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewProgress binds a reporter to one task.
func NewProgress(taskID string, taskStore store.TaskStore, notifier notify.Notifier, logger *slog.Logger) *Progress {
	if logger == nil {
		logger = slog.Default()
	}
	return &Progress{
		taskID:   taskID,
		store:    taskStore,
		notifier: notifier,
		logger:   logger.With(slog.String("task_id", taskID)),
	}
}

// Report records the progress text and optionally advances the task's
// status. When triggerCallback is true the current (possibly just
// updated) status and progress are sent to the callback endpoint
// without output. Reporting against a task that no longer exists is a
// silent no-op, matching the store's update semantics.
func (p *Progress) Report(ctx context.Context, text string, status *domain.TaskStatus, triggerCallback bool) {
	if status != nil {
		if (*status).IsTerminal() {
			p.logger.Warn("progress reporter refused terminal status update",
				slog.String("status", (*status).String()))
		} else {
			p.store.UpdateStatus(ctx, p.taskID, *status)
		}
	}
	p.store.UpdateProgress(ctx, p.taskID, text)

	if !triggerCallback {
		return
	}

	snapshot, err := p.store.Get(ctx, p.taskID)
	if err != nil {
		p.logger.Debug("skipping progress callback for absent task")
		return
	}
	p.notifier.Notify(ctx, p.taskID, snapshot.Status, nil, snapshot.Progress)
}
