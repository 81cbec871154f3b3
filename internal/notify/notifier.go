// Package notify delivers best-effort HTTP callbacks describing task
// state. Delivery is fire-and-forget: failures are logged and never
// surfaced to the caller, and there is no retry. Callback delivery must
// never block or fail task cleanup.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weihan/ordertask-api/internal/domain"
)

// callbackPath is the fixed path appended to the configured base URL.
const callbackPath = "/ai-task/callback-update"

// apiKeyHeader carries the shared secret expected by the callback target.
const apiKeyHeader = "x-api-key"

// Notifier is the interface used by the executor and handlers to report
// task state to the external callback target.
// Version: 1.0
type Notifier interface {
	// Notify schedules a callback delivery and returns immediately.
	Notify(ctx context.Context, taskID string, status domain.TaskStatus, output map[string]any, progress string)
}

// payload is the JSON body POSTed to the callback target. Progress and
// output are nullable; output carries the JSON-serialized document as a
// string, matching the receiving side's contract.
type payload struct {
	TaskID     string  `json:"taskId"`
	TaskStatus int     `json:"taskStatus"`
	Progress   *string `json:"progress"`
	Output     *string `json:"output"`
}

// Config holds the fixed process-wide callback configuration.
type Config struct {
	// BaseURL is the callback target origin; empty disables delivery.
	BaseURL string

	// APIKey is the shared secret sent in the x-api-key header when set.
	APIKey string

	// Timeout bounds each delivery attempt.
	Timeout time.Duration
}

// CallbackNotifier implements Notifier over HTTP.
type CallbackNotifier struct {
	config Config
	client *http.Client
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewCallbackNotifier creates a notifier with the given configuration.
func NewCallbackNotifier(config Config, logger *slog.Logger) *CallbackNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &CallbackNotifier{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.With("component", "callback_notifier"),
	}
}

// Notify schedules a callback delivery on its own goroutine and returns
// before the HTTP exchange completes.
func (n *CallbackNotifier) Notify(
	ctx context.Context,
	taskID string,
	status domain.TaskStatus,
	output map[string]any,
	progress string,
) {
	body, err := n.buildPayload(taskID, status, output, progress)
	if err != nil {
		n.logger.Error("failed to build callback payload",
			"task_id", taskID,
			"error", err)
		return
	}

	// Delivery runs detached from the caller's context: the triggering
	// request may already be finished by the time the POST completes.
	deliveryID := uuid.New().String()
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(taskID, deliveryID, body)
	}()
}

// Wait blocks until all in-flight deliveries finish. Used during
// graceful shutdown and in tests; normal operation never calls it.
func (n *CallbackNotifier) Wait() {
	n.wg.Wait()
}

func (n *CallbackNotifier) buildPayload(
	taskID string,
	status domain.TaskStatus,
	output map[string]any,
	progress string,
) ([]byte, error) {
	p := payload{
		TaskID:     taskID,
		TaskStatus: int(status),
	}
	if progress != "" {
		p.Progress = &progress
	}
	if output != nil {
		serialized, err := json.Marshal(output)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize output: %w", err)
		}
		s := string(serialized)
		p.Output = &s
	}
	return json.Marshal(p)
}

// deliver performs one callback POST. Non-2xx responses are logged at
// warn; timeouts and transport faults at error. Nothing is retried.
func (n *CallbackNotifier) deliver(taskID, deliveryID string, body []byte) {
	if n.config.BaseURL == "" {
		n.logger.Debug("callback base URL not configured, skipping delivery",
			"task_id", taskID,
			"delivery_id", deliveryID)
		return
	}

	url := n.config.BaseURL + callbackPath
	logger := n.logger.With(
		"task_id", taskID,
		"delivery_id", deliveryID,
		"url", url)

	ctx, cancel := context.WithTimeout(context.Background(), n.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		logger.Error("failed to build callback request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.config.APIKey != "" {
		req.Header.Set(apiKeyHeader, n.config.APIKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Error("callback timed out", "timeout", n.config.Timeout)
		} else {
			logger.Error("callback delivery failed", "error", err)
		}
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("callback target rejected delivery", "status_code", resp.StatusCode)
		return
	}

	logger.Info("callback delivered", "status_code", resp.StatusCode)
}
