// Command ecalib runs BART ESPIRiT calibration on container files.
//
// `ecalib run` loads a k-space container, drives the calibration node with
// panel values taken from flags and the [defaults] config section, and
// publishes the routed outputs to the requested destinations. The remaining
// subcommands describe the node, inspect containers, check the installation,
// list recorded invocations and manage configuration and scratch space.
package main
