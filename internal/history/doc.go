// Package history keeps a SQLite ledger of calibration invocations.
//
// Each row records the invocation id, the full argument vector, the input
// shape, how long the run took and how it ended. The ledger is optional and
// is only opened when history.enabled is set.
package history
