// Package logging provides a minimal logging interface and adapters for omnimesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the registry, connectors and orchestrator use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an existing *slog.Logger
//   - MeshLogger, a slog based logger with request scoped attributes
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	mesh := omnimesh.New(func(o *omnimesh.Options) { o.Logger = logger })
package logging
