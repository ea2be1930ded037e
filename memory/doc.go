// Package memory contains core.MemoryProvider implementations. The
// orchestrator asks a MemoryProvider for caller context when a request sets
// IncludeMemory; select an implementation (like the in-memory store below)
// at wiring time.
package memory
