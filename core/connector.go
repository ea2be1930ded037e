package core

import "context"

// CallOptions carries optional per-call tuning. Zero values mean "use the
// connector default".
type CallOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	Extra       map[string]any
}

// CallRequest is the input handed to a connector for a single invocation.
type CallRequest struct {
	Prompt         string
	CallerID       string
	ConversationID string
	Options        CallOptions
}

// Connector is the uniform contract every provider wrapper honors.
//
// Implementations must:
//   - Never panic or return a Go error: every network / protocol failure is
//     converted into an error-bearing ProviderResponse
//   - Respect ctx cancellation, which carries the call's time budget
//   - Scrub PII from outgoing text before returning
type Connector interface {
	Name() string
	Modalities() []Modality
	Call(ctx context.Context, req CallRequest) ProviderResponse
}

// HealthChecker is implemented by connectors able to probe their backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// CostEstimator is implemented by connectors able to price a call upfront.
type CostEstimator interface {
	CostEstimate(ctx context.Context, req CallRequest) float64
}

// Credentialed is implemented by connectors that require a credential.
// Connectors that do not implement it are treated as credentialed.
type Credentialed interface {
	HasCredential() bool
}

// Supports reports whether c serves modality m.
func Supports(c Connector, m Modality) bool {
	for _, cm := range c.Modalities() {
		if cm == m {
			return true
		}
	}
	return false
}

// HasCredential reports whether c has its required credential.
func HasCredential(c Connector) bool {
	if cr, ok := c.(Credentialed); ok {
		return cr.HasCredential()
	}
	return true
}

// CapabilityDescriptor is the admin-facing view of a registered connector.
type CapabilityDescriptor struct {
	Name       string     `json:"name"`
	Modalities []Modality `json:"supportedModalities"`
	Enabled    bool       `json:"enabled"`
	Healthy    bool       `json:"healthy"`
}
