// Package logging assembles the structured slog loggers used across ecalib.
//
// It owns the console and JSON handlers, level parsing and output plumbing,
// and exposes context-aware helpers so node code automatically tags log lines
// with the invocation ID and node name. A no-op logger is provided for tests
// and wiring code that cannot fail.
package logging
