// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/weihan/ordertask-api/internal/config"
	"github.com/weihan/ordertask-api/internal/generation"
)

// GeminiGenerator implements generation.Generator using Google's Gemini
// API. One instance is shared by all tasks; the underlying client is
// safe for concurrent use.
type GeminiGenerator struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
}

// NewGeminiGenerator creates a generator backed by the Gemini API.
// Returns generation.ErrInvalidConfig when required settings are missing.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger: logger.With("component", "gemini_generator"),
		config: cfg,
		client: client,
	}, nil
}

// buildContents converts the ordered messages into genai contents. A
// system message becomes the system instruction; everything else maps
// onto the user/model roles.
func buildContents(messages []generation.Message) ([]*genai.Content, *genai.Content, error) {
	var contents []*genai.Content
	var system *genai.Content

	for _, msg := range messages {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case generation.RoleSystem:
			system = genai.NewContentFromText(msg.Content, genai.RoleUser)
		case generation.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	if len(contents) == 0 {
		return nil, nil, generation.ErrEmptyPrompt
	}
	return contents, system, nil
}

// Generate sends the messages to the named model and returns the full
// response text. Transient API faults are retried with exponential
// backoff and jitter; malformed or blocked responses surface immediately.
func (g *GeminiGenerator) Generate(
	ctx context.Context,
	messages []generation.Message,
	modelID string,
) (string, error) {
	contents, system, err := buildContents(messages)
	if err != nil {
		return "", err
	}

	model := modelID
	if model == "" {
		model = g.config.ModelName
	}

	genCfg := &genai.GenerateContentConfig{SystemInstruction: system}

	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	timeout := time.Duration(g.config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.DebugContext(ctx, "invoking model",
			"model", model,
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := g.client.Models.GenerateContent(callCtx, model, contents, genCfg)
		cancel()

		text, err := extractText(resp, err)
		if err == nil {
			g.logger.DebugContext(ctx, "model invocation succeeded",
				"model", model,
				"attempt", attemptNum,
				"response_length", len(text))
			return text, nil
		}

		g.logger.ErrorContext(ctx, "model invocation failed",
			"model", model,
			"attempt", attemptNum,
			"error", err)

		// Blocked content and malformed responses will not improve on
		// a retry; only transport-level faults are retried.
		if errors.Is(err, generation.ErrContentBlocked) ||
			errors.Is(err, generation.ErrInvalidResponse) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// GenerateStream sends the messages and feeds each response chunk to fn
// as it arrives. Streaming attempts are not retried.
func (g *GeminiGenerator) GenerateStream(
	ctx context.Context,
	messages []generation.Message,
	modelID string,
	fn func(chunk string) error,
) error {
	contents, system, err := buildContents(messages)
	if err != nil {
		return err
	}

	model := modelID
	if model == "" {
		model = g.config.ModelName
	}

	genCfg := &genai.GenerateContentConfig{SystemInstruction: system}

	for resp, err := range g.client.Models.GenerateContentStream(ctx, model, contents, genCfg) {
		if err != nil {
			return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}

// extractText validates a GenerateContent result and returns its
// concatenated text, mapping failure shapes onto the generation errors.
func extractText(resp *genai.GenerateContentResponse, callErr error) (string, error) {
	if callErr != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, callErr)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: generation stopped by safety filters", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return text, nil
}
