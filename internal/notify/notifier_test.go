package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weihan/ordertask-api/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestCallbackNotifier_Delivery(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		received []byte
		header   http.Header
		path     string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		received = body
		header = r.Header.Clone()
		path = r.URL.Path
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewCallbackNotifier(Config{
		BaseURL: server.URL,
		APIKey:  "secret",
		Timeout: 2 * time.Second,
	}, discardLogger())

	output := map[string]any{"products": []any{}}
	n.Notify(context.Background(), "t1", domain.TaskStatusSuccess, output, "processing complete")
	n.Wait()

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, "/ai-task/callback-update", path)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Equal(t, "secret", header.Get("x-api-key"))

	var p struct {
		TaskID     string  `json:"taskId"`
		TaskStatus int     `json:"taskStatus"`
		Progress   *string `json:"progress"`
		Output     *string `json:"output"`
	}
	require.NoError(t, json.Unmarshal(received, &p))

	assert.Equal(t, "t1", p.TaskID)
	assert.Equal(t, 3, p.TaskStatus)
	require.NotNil(t, p.Progress)
	assert.Equal(t, "processing complete", *p.Progress)

	// Output travels as a JSON-serialized string, not a nested object.
	require.NotNil(t, p.Output)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(*p.Output), &doc))
	assert.Contains(t, doc, "products")
}

func TestCallbackNotifier_NullFields(t *testing.T) {
	t.Parallel()

	bodyCh := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodyCh <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewCallbackNotifier(Config{BaseURL: server.URL}, discardLogger())
	n.Notify(context.Background(), "t2", domain.TaskStatusRunning, nil, "")
	n.Wait()

	var raw map[string]any
	require.NoError(t, json.Unmarshal(<-bodyCh, &raw))

	// Absent progress and output serialize as explicit nulls.
	assert.Contains(t, raw, "progress")
	assert.Nil(t, raw["progress"])
	assert.Contains(t, raw, "output")
	assert.Nil(t, raw["output"])
}

func TestCallbackNotifier_FireAndForget(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	n := NewCallbackNotifier(Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, discardLogger())

	// Notify must return while the server is still holding the request.
	start := time.Now()
	n.Notify(context.Background(), "t1", domain.TaskStatusSuccess, nil, "")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestCallbackNotifier_FailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	t.Run("non-2xx response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		n := NewCallbackNotifier(Config{BaseURL: server.URL}, discardLogger())
		assert.NotPanics(t, func() {
			n.Notify(context.Background(), "t1", domain.TaskStatusFailed, nil, "")
			n.Wait()
		})
	})

	t.Run("unreachable target", func(t *testing.T) {
		t.Parallel()

		n := NewCallbackNotifier(Config{
			BaseURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		}, discardLogger())
		assert.NotPanics(t, func() {
			n.Notify(context.Background(), "t1", domain.TaskStatusFailed, nil, "")
			n.Wait()
		})
	})

	t.Run("no base URL configured", func(t *testing.T) {
		t.Parallel()

		n := NewCallbackNotifier(Config{}, discardLogger())
		assert.NotPanics(t, func() {
			n.Notify(context.Background(), "t1", domain.TaskStatusSuccess, nil, "")
			n.Wait()
		})
	})
}
