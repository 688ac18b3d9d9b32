// Package ecalib adapts BART's ESPIRiT calibration (`bart ecalib`) to the node
// interface.
//
// Options maps the panel widgets one to one onto ecalib flags in the tool's
// fixed order. Calibrator owns a single invocation: it writes the k-space
// input into a private scratch workspace, allocates one output container in
// first-part-only mode and two otherwise, runs the tool, reads the results
// back and removes the workspace on every exit path. Node routes those
// results to the imgcov port, or to the sensitivities and ev_maps ports.
package ecalib
