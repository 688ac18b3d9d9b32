// Package config loads, normalizes, and validates ecalib configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BART_TOOLBOX_PATH. The Config type centralizes every knob the CLI and the
// calibration node need, so the BART installation root, scratch space and
// panel defaults are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
