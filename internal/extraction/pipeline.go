package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/weihan/ordertask-api/internal/domain"
	"github.com/weihan/ordertask-api/internal/generation"
	"github.com/weihan/ordertask-api/internal/task"
)

// Pipeline is the text-extraction task handler. It validates the input,
// splits oversized text into chunks, runs each chunk through the model,
// and merges the per-chunk product lists into the task output.
// Version: 1.0
type Pipeline struct {
	taskID    string
	input     map[string]any
	progress  *task.Progress
	generator generation.Generator
	modelID   string
	logger    *slog.Logger
}

// NewHandlerFactory returns the factory the executor registry uses to
// build a Pipeline per task. modelID selects the generation model for
// every chunk call.
func NewHandlerFactory(modelID string) task.HandlerFactory {
	return func(taskID string, input map[string]any, progress *task.Progress, deps task.HandlerDeps) task.Handler {
		logger := deps.Logger
		if logger == nil {
			logger = slog.Default()
		}
		return &Pipeline{
			taskID:    taskID,
			input:     input,
			progress:  progress,
			generator: deps.Generator,
			modelID:   modelID,
			logger: logger.With(
				slog.String("component", "extraction_pipeline"),
				slog.String("task_id", taskID),
			),
		}
	}
}

// Execute runs the pipeline and returns the merged product document.
func (p *Pipeline) Execute(ctx context.Context) (map[string]any, error) {
	text, merchantID, err := p.validateInput()
	if err != nil {
		return nil, err
	}
	p.logger.Info("extraction started",
		slog.String("merchant_id", merchantID),
		slog.Int("text_runes", len([]rune(text))),
		slog.Int("estimated_tokens", EstimateTokens(text)))

	p.progress.Report(ctx, "开始识别订单信息", nil, true)

	chunks := SplitText(text)
	merged := make([]Product, 0)
	for i, chunk := range chunks {
		p.progress.Report(ctx, fmt.Sprintf("processing chunk %d/%d", i+1, len(chunks)), nil, true)
		products, err := p.extractChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		merged = append(merged, products...)
	}

	p.progress.Report(ctx, "处理完成", nil, true)
	p.logger.Info("extraction finished", slog.Int("product_count", len(merged)))

	return map[string]any{"products": merged}, nil
}

// validateInput checks the required fields before any model work.
func (p *Pipeline) validateInput() (text, merchantID string, err error) {
	text, _ = p.input["text"].(string)
	if strings.TrimSpace(text) == "" {
		return "", "", domain.NewError(domain.CodeInputFormat, "input field 'text' must not be empty")
	}
	merchantID, _ = p.input["merchantId"].(string)
	if strings.TrimSpace(merchantID) == "" {
		return "", "", domain.NewError(domain.CodeInputFormat, "input field 'merchantId' must not be empty")
	}
	return text, merchantID, nil
}

// extractChunk runs one chunk through prompt, model, parse, validate.
func (p *Pipeline) extractChunk(ctx context.Context, chunk string) ([]Product, error) {
	prompt, err := FormatPrompt(chunk)
	if err != nil {
		return nil, fmt.Errorf("formatting extraction prompt: %w", err)
	}

	response, err := p.generator.Generate(ctx, []generation.Message{
		{Role: generation.RoleUser, Content: prompt},
	}, p.modelID)
	if err != nil {
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}

	doc, err := ParseResponse(response)
	if err != nil {
		p.logger.Warn("model response yielded no document",
			slog.String("response_prefix", truncate(response, 200)))
		return nil, err
	}

	products, err := ValidateDocument(doc)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
