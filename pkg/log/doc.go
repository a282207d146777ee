// Package log provides structured event capture for the pwsync engine.
//
// This package defines the Logger interface and Event types for recording
// what flows between the engine and the media server: inbound info and
// parameter events, outbound commands, cached state changes and the errors
// that caused an update to be dropped. It is separate from operational
// logging (slog) - capture gives a complete machine-readable trace that can
// be replayed against a bug report.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.EventLog = log.NewSlogAdapter(slog.Default())
//
//	// For bug reports: write to a binary file
//	cfg.EventLog, _ = log.NewFileLogger("/tmp/pwsync.pwlog")
//
//	// Both, stamped with one session id
//	cfg.EventLog = log.NewSession(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	))
//
// # Event Types
//
// Events are captured per engine layer (decoder, node, device, audio) and
// carry exactly one payload:
//   - InfoEventData: an info event received from the server
//   - ParamEventData: a parameter event received from the server
//   - CommandEventData: a command sent to the server
//   - StateChangeEvent: a cached value changed
//   - ErrorEventData: an update or command was dropped
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .pwlog extension.
// The pwsync-log CLI tool views and summarizes them.
package log
