package llm

import "context"

// Message roles accepted by the completion endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in a completion request.
type Message struct {
	Role    string
	Content string
}

// Client produces one free-text completion for an ordered message list.
// Implementations own the model identifier and transport details.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
