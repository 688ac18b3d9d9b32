// Package bart mediates access to the BART toolbox command line.
//
// It resolves the executable from an installation root, runs subcommands
// through a testable Executor, streams tool output into debug logs and
// translates failures into the services error markers: a tool that cannot be
// started is an invocation error, a nonzero exit is an external tool error
// carrying the exit code and the tail of the tool's output.
//
// Prefer this package over ad-hoc exec.Command usage when interacting with
// BART so timeout handling and error classification remain consistent.
package bart
