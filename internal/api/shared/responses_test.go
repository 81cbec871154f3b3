package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RespondWithJSON(rec, req, http.StatusAccepted, map[string]string{"taskId": "t1"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"taskId": "t1"}`, rec.Body.String())
}

func TestRespondWithCodedError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(SetTraceID(req.Context()))
	RespondWithCodedError(rec, req, http.StatusConflict, 20001, "Task ID already exists")

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Task ID already exists", resp.Error)
	assert.Equal(t, 20001, resp.Code)
	assert.NotEmpty(t, resp.TraceID)
}

func TestRespondWithError_OmitsZeroCode(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RespondWithError(rec, req, http.StatusBadRequest, "Invalid request format")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "code")
}

func TestRespondWithErrorAndLog_HidesInternalError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	internal := errors.New("dial tcp 10.1.2.3:443: connection refused")
	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed to list tasks", internal)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.1.2.3")
	assert.Contains(t, rec.Body.String(), "Failed to list tasks")
}
