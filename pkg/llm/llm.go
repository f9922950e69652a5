package llm

import "context"

// Message roles accepted by chat models.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes a single model call. Zero values fall back to the gateway's
// configured defaults.
type Options struct {
	// Model overrides the configured primary model.
	Model string
	// Temperature overrides the configured default when non-nil.
	Temperature *float32
	// MaxTokens caps the response length.
	MaxTokens int
	// Operation labels metrics for this call.
	Operation string
}

// Temp is a convenience for building Options with an explicit temperature.
func Temp(v float32) *float32 {
	return &v
}

// Client is the model-call surface the services depend on.
type Client interface {
	// ChatCompletion sends the conversation and returns the assistant reply.
	ChatCompletion(ctx context.Context, messages []Message, opts Options) (string, error)
	// Embedding returns the embedding vector for the given text.
	Embedding(ctx context.Context, text string) ([]float32, error)
	// TokenCount estimates prompt tokens for the given model.
	TokenCount(text string, model string) int
}

// StructuredCompletion sends a system prompt followed by a user prompt.
func StructuredCompletion(ctx context.Context, client Client, systemPrompt, userPrompt string, opts Options) (string, error) {
	messages := []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: userPrompt},
	}
	return client.ChatCompletion(ctx, messages, opts)
}
