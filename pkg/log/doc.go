// Package log provides structured protocol logging for the Dash host.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events: inbound requests, outbound responses, dropped
// messages, and permission notifications. It is separate from operational
// logging (slog) - protocol capture provides a machine-readable trace of
// every dispatch for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	logger, _ := log.NewFileLogger("/var/log/dash/host.dlog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with .dlog extension; Reader streams them
// back with optional filtering.
package log
