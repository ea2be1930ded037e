// Package connector implements the resilient call contract shared by every
// provider wrapper:
//
//   - Bounded time: CallWithTimeout races a call against its deadline and
//     cancels the abandoned call's context on expiry
//   - Opt-in retry: Retry re-runs a step with linear backoff
//     (delay = BaseDelay × attempt), never exponential
//   - Normalization: Normalize maps heterogeneous JSON payloads into
//     core.ProviderResponse, defaulting unknown fields to empty
//   - PII scrubbing: ScrubPII replaces e-mails, phone numbers and card-like
//     digit groups before text leaves the connector boundary
//
// Concrete connectors embed Base and live in sub packages (openai,
// anthropic, huggingface, stability, placeholder). Mock is an in-memory
// connector for tests and examples.
package connector
