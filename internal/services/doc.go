// Package services defines shared utilities consumed by node implementations
// and the external tool integrations beneath them.
//
// Key responsibilities:
//   - Context helpers that stamp invocation IDs and node names for logging.
//   - Structured error markers plus the Wrap helper that tag failures by the
//     phase that produced them (serialization, invocation, external tool,
//     deserialization) so callers can classify them with errors.Is.
//
// Use these helpers when wiring new node logic so error reporting and
// observability stay uniform across the repository.
package services
