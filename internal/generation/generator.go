package generation

import "context"

// Message roles accepted by Generate.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in the ordered conversation passed to the model.
type Message struct {
	Role    string
	Content string
}

// Generator defines the interface for invoking a text-generation model.
// This interface is the seam between the task handlers and the external
// LLM service; tests substitute it with scripted fakes.
type Generator interface {
	// Generate sends the ordered messages to the named model and
	// returns the full response text.
	Generate(ctx context.Context, messages []Message, modelID string) (string, error)

	// GenerateStream sends the messages and invokes fn for each
	// response chunk as it arrives. A non-nil error from fn aborts the
	// stream and is returned.
	GenerateStream(ctx context.Context, messages []Message, modelID string, fn func(chunk string) error) error
}
