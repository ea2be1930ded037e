package core

import "time"

// DefaultLanguage is the output locale used when a request names none.
const DefaultLanguage = "pt-BR"

// OrchestrationRequest captures one inbound prompt and its options.
type OrchestrationRequest struct {
	Prompt   string
	CallerID string
	// Providers optionally restricts dispatch to an explicit subset. It is
	// truncated to the orchestrator's max-providers limit.
	Providers []string
	// Timeout overrides the per-call budget when positive.
	Timeout time.Duration
	// IncludeMemory asks the orchestrator to fetch caller memory context.
	IncludeMemory bool
	// Language is the output locale; empty means DefaultLanguage.
	Language string
	// Options are forwarded to every connector call.
	Options CallOptions
}

// CombinerContext is the input of the consolidation step.
type CombinerContext struct {
	UserMessage   string
	MemoryContext string
	Responses     []ProviderResponse
	Language      string
}

// TraceEntry pairs an excerpt with the provider believed to have contributed
// it. It is an attribution heuristic, not a verified span mapping.
type TraceEntry struct {
	Excerpt  string `json:"fragment"`
	Provider string `json:"provider"`
}

// CombinedResult is the consolidated answer handed back to the caller.
type CombinedResult struct {
	RequestID         string             `json:"requestId"`
	Combined          string             `json:"combined"`
	ProviderResponses []ProviderResponse `json:"providerResponses"`
	Trace             []TraceEntry       `json:"trace"`
	Combiner          string             `json:"combiner"`
	Timestamp         time.Time          `json:"timestamp"`
}
