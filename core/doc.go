// Package core provides the foundational domain types and contracts used by
// omnimesh. It defines the core abstractions for:
//
//   - Connectors (uniform wrappers around one external AI capability)
//   - Provider responses (the normalized outcome of a single connector call)
//   - Orchestration requests and combined results (fan-out / fan-in I/O)
//   - External collaborators (memory context, secondary synthesis)
//   - The error taxonomy shared by connectors and the orchestrator
//
// The package intentionally keeps implementation concerns (registries,
// concrete connectors, orchestration) out of scope, exposing small interfaces
// so custom backends can be plugged in without touching the engine.
package core
