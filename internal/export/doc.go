// Package export publishes calibration results as containers outside the
// scratch workspace.
//
// Publishing holds an advisory lock on <dest>.lock so two runs cannot
// interleave writes to the same destination. The pair is written under hidden
// sibling names and renamed into place data first, header last, so a reader
// that finds the new header also finds matching data.
package export
