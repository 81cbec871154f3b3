// Package api implements the HTTP handlers for task creation and
// inspection, plus the error-to-status mapping and request DTO
// validation shared by them.
package api
