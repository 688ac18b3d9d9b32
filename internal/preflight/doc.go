// Package preflight provides readiness checks for the BART installation and
// the filesystem paths ecalib writes to.
//
// These checks run in two contexts:
//   - The CLI "ecalib preflight" command prints every result.
//   - "ecalib run" calls RunAll before staging any containers and refuses to
//     start when a required check fails.
//
// Checks for optional features are skipped when the feature is disabled.
package preflight
