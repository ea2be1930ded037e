package core

import "context"

// MemoryProvider resolves optional prior-context text for a caller. An empty
// string means no context is available.
type MemoryProvider interface {
	Context(ctx context.Context, callerID string) (string, error)
}

// Message roles understood by synthesizers.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one entry of a structured synthesis conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Synthesizer is the secondary capability that merges provider answers. It
// is treated as opaque: any returned error triggers the orchestrator's
// deterministic fallback.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, messages []Message) (string, error)
}
