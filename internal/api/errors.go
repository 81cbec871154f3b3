package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/weihan/ordertask-api/internal/domain"
	"github.com/weihan/ordertask-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. The
// mapping is deliberately explicit so new error types default to 500
// until someone decides otherwise.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrTaskExists):
		return http.StatusConflict

	case errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrEmptyTaskID),
		errors.Is(err, domain.ErrInvalidTaskType),
		errors.Is(err, domain.ErrEmptyTaskInput):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for an
// error. Raw error strings never reach the client through this path.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrTaskExists):
		return "Task ID already exists"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, domain.ErrEmptyTaskID):
		return "Task ID must not be empty"

	case errors.Is(err, domain.ErrInvalidTaskType):
		return "Unknown task type"

	case errors.Is(err, domain.ErrEmptyTaskInput):
		return "Task input must not be empty"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError converts a validator error into a short
// client-facing message naming the field and the failed rule without
// echoing the submitted value back.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'CreateTaskRequest.TaskID' Error:Field validation for 'TaskID' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
