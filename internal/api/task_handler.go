package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/weihan/ordertask-api/internal/api/shared"
	"github.com/weihan/ordertask-api/internal/domain"
	"github.com/weihan/ordertask-api/internal/store"
)

// TaskDispatcher is the slice of the executor the handler needs: the
// ability to check whether a type can run and to launch it.
type TaskDispatcher interface {
	Supports(taskType domain.TaskType) bool
	Dispatch(taskID string, taskType domain.TaskType, input map[string]any)
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	store      store.TaskStore
	dispatcher TaskDispatcher
	validator  *validator.Validate
	logger     *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, dispatcher TaskDispatcher, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		store:      taskStore,
		dispatcher: dispatcher,
		validator:  validator.New(),
		logger:     logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks. On success the task exists in
// PENDING state and execution has been launched; the response never
// waits for execution.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithCodedError(w, r, http.StatusBadRequest,
			domain.CodeInputFormat, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithCodedError(w, r, http.StatusBadRequest,
			domain.CodeInputFormat, SanitizeValidationError(err))
		return
	}

	taskType := domain.TaskType(req.TaskType)
	if !taskType.IsValid() {
		shared.RespondWithCodedError(w, r, http.StatusBadRequest,
			domain.CodeTaskTypeNotSupported, "Unknown task type")
		return
	}
	if !h.dispatcher.Supports(taskType) {
		shared.RespondWithCodedError(w, r, http.StatusBadRequest,
			domain.CodeTaskTypeNotSupported, "Task type is not supported")
		return
	}

	if err := ValidateInputDocument(req.Input); err != nil {
		// Limit violations carry no caller data, safe to echo.
		shared.RespondWithCodedError(w, r, http.StatusBadRequest,
			domain.CodeInputFormat, err.Error())
		return
	}

	if _, err := h.store.Create(r.Context(), req.TaskID, taskType, req.Input); err != nil {
		status := MapErrorToStatusCode(err)
		code := domain.CodeUnknown
		if status == http.StatusConflict {
			code = domain.CodeTaskIDExists
		}
		shared.RespondWithCodedError(w, r, status, code, GetSafeErrorMessage(err))
		return
	}

	h.logger.Info("task created",
		slog.String("task_id", req.TaskID),
		slog.Int("task_type", req.TaskType))

	h.dispatcher.Dispatch(req.TaskID, taskType, req.Input)

	shared.RespondWithJSON(w, r, http.StatusAccepted, CreateTaskResponse{TaskID: req.TaskID})
}

// GetTask handles GET /api/tasks/{id}. Terminal tasks are deleted on
// completion, so a NotFound after a callback is the expected steady
// state, not an error condition.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		shared.RespondWithCodedError(w, r, http.StatusBadRequest,
			domain.CodeInputFormat, "Task ID must not be empty")
		return
	}

	task, err := h.store.Get(r.Context(), taskID)
	if err != nil {
		shared.RespondWithCodedError(w, r, MapErrorToStatusCode(err),
			domain.CodeTaskNotFound, GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ListTasks handles GET /api/tasks with an optional ?status= filter.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var statusFilter *domain.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || !domain.TaskStatus(value).IsValid() {
			shared.RespondWithCodedError(w, r, http.StatusBadRequest,
				domain.CodeInputFormat, "Invalid status filter")
			return
		}
		status := domain.TaskStatus(value)
		statusFilter = &status
	}

	tasks, err := h.store.List(r.Context(), statusFilter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list tasks", err)
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks: responses,
		Total: len(responses),
	})
}
