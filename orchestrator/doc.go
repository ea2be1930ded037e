// Package orchestrator fans one prompt out to several connectors and folds
// the outcomes into a single CombinedResult.
//
// Each request walks RESOLVE, DISPATCH, COLLECT, FILTER and then either
// CONSOLIDATE or FALLBACK:
//
//   - RESOLVE picks the caller's explicit provider list, or every enabled text
//     connector, truncated to MaxProviders.
//   - DISPATCH starts one goroutine per resolved provider, each raced against
//     the call budget. Unknown names become NotFound entries without a call.
//   - COLLECT waits for all calls to settle. Results stay index-aligned with
//     the resolved list and no failure aborts a sibling.
//   - FILTER keeps valid responses for synthesis; invalid ones are reported
//     but not synthesized.
//
// With no valid response the result carries a localized apology. Otherwise a
// Synthesizer merges the answers; if it fails, the answers are concatenated
// as "provider: text" in dispatch order.
//
// Orchestrate never returns an error.
package orchestrator
