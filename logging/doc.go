// Package logging provides a minimal logging interface and adapters for AgentField.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that fields and adapters use for observability. This package
// includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - FieldLogger with field/resource context helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "text", false)
//	f := field.New("workflow", func(o *field.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
