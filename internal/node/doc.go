// Package node defines the plug interface between dataflow nodes and the host
// that runs them.
//
// A Node declares its configuration widgets and typed ports through Describe
// and does its work in Compute, reading widget values and input arrays from a
// Host and publishing output arrays back to it. Panel is an in-memory Host
// used by the command line and by tests: widgets start at their declared
// defaults, Set enforces widget kinds and minimums, and Run checks required
// ports before calling Compute.
package node
